package variable

import "github.com/mohitkumar/screenflow/model"

// ResolveDestination turns a navigation target into a concrete screen id,
// sentinel or url. The boolean is false when there is nothing to navigate to.
func ResolveDestination(d *model.Destination, vars Store) (string, bool) {
	if d == nil {
		return "", false
	}
	switch d.Kind {
	case model.DESTINATION_LITERAL:
		return d.Literal, true
	case model.DESTINATION_ROUTES:
		for _, route := range d.Routes {
			if Evaluate(route.Condition, vars) {
				return ResolveDestination(route.Destination, vars)
			}
		}
		return ResolveDestination(d.Default, vars)
	case model.DESTINATION_CONDITIONAL:
		if Evaluate(d.If, vars) {
			return ResolveDestination(d.Then, vars)
		}
		if d.Else == nil {
			return model.DESTINATION_NEXT, true
		}
		return ResolveDestination(d.Else, vars)
	}
	return "", false
}
