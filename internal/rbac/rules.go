package rbac

// Simple default policy. The teacher role includes the whole student
// surface so the split-pane preview can run a quiz session as-is.
var RolePermissions = map[string][]string{
	"student": {
		"bank:view",
		"session:*",
		"results:view-own",
		"leaderboard:view",
	},
	"teacher": {
		"bank:view",
		"session:*",
		"question:create",
		"question:edit",
		"question:delete",
		"question:import",
		"question:export",
		"settings:view",
		"settings:update",
		"roster:manage",
		"results:view-own",
		"results:view-all",
		"results:delete",
		"results:print",
		"leaderboard:view",
		"assets:upload",
		"assets:delete",
	},
}
