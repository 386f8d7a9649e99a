// Package audit records and queries the append-only log of
// security- and business-relevant actions.
package audit

// Category is one of the fixed audit action domains. The set is closed:
// handlers pick a category and a verb, and the recorder derives the
// namespaced action string and target-type label from it.
type Category string

const (
	CategoryAuth    Category = "auth"
	CategoryLicense Category = "license"
	CategoryUser    Category = "user"
	CategoryClient  Category = "client"
	CategoryTask    Category = "task"
	CategoryTime    Category = "time"
	CategoryAML     Category = "aml"
)

// Categories lists every known category, for exhaustiveness checks.
var Categories = []Category{
	CategoryAuth,
	CategoryLicense,
	CategoryUser,
	CategoryClient,
	CategoryTask,
	CategoryTime,
	CategoryAML,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryAuth, CategoryLicense, CategoryUser, CategoryClient,
		CategoryTask, CategoryTime, CategoryAML:
		return true
	default:
		return false
	}
}

// Action builds the namespaced "<category>.<verb>" action string,
// e.g. CategoryClient.Action("create") == "client.create".
func (c Category) Action(verb string) string {
	return string(c) + "." + verb
}

// TargetType maps a category to the entity label its actions target.
// AML actions target the client under review; auth actions target the
// user's session.
func (c Category) TargetType() string {
	switch c {
	case CategoryAuth:
		return "session"
	case CategoryLicense:
		return "license"
	case CategoryUser:
		return "user"
	case CategoryClient, CategoryAML:
		return "client"
	case CategoryTask:
		return "task"
	case CategoryTime:
		return "time_entry"
	default:
		return ""
	}
}
