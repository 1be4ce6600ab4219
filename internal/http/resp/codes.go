package resp

const (
	CodeBadRequest    = "bad_request"
	CodeMissingID     = "missing_id"
	CodeInvalidID     = "invalid_id"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"

	CodeRouteNotFound    = "route_not_found"
	CodeMethodNotAllowed = "method_not_allowed"
)
