package domain

// ResourceKind names a resource the access resolver can decide on.
type ResourceKind string

const (
	ResourceProject         ResourceKind = "project"
	ResourceTask            ResourceKind = "task"
	ResourceQuote           ResourceKind = "quote"
	ResourceTransaction     ResourceKind = "transaction"
	ResourceSiteMeasurement ResourceKind = "site_measurement"
)

// ResourceKinds lists every kind in a stable order.
var ResourceKinds = []ResourceKind{ResourceProject, ResourceTask, ResourceQuote, ResourceTransaction, ResourceSiteMeasurement}

// ParseResourceKind returns the kind named by raw, if any.
func ParseResourceKind(raw string) (ResourceKind, bool) {
	for _, k := range ResourceKinds {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// DecisionCode distinguishes why access was granted or denied.
type DecisionCode string

const (
	DecisionGranted    DecisionCode = "granted"
	DecisionNotFound   DecisionCode = "not_found"
	DecisionForbidden  DecisionCode = "forbidden"
	DecisionRoleDenied DecisionCode = "role_denied"
	DecisionInvalidID  DecisionCode = "invalid_id"
)

// AccessDecision is the outcome of resolving one user against one resource.
// A denial is a normal outcome, not an error.
type AccessDecision struct {
	Allowed bool         `json:"allowed"`
	Code    DecisionCode `json:"code"`
	Reason  string       `json:"reason,omitempty"`
}

func Allow(reason string) AccessDecision {
	return AccessDecision{Allowed: true, Code: DecisionGranted, Reason: reason}
}

func Deny(code DecisionCode, reason string) AccessDecision {
	return AccessDecision{Allowed: false, Code: code, Reason: reason}
}
