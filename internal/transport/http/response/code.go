package response

// 业务错误码直接复用 HTTP 语义
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeLocked       = 423
	CodeServerError  = 500
)

// CodeMsgMap 集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeConflict:     "Conflict",
	CodeLocked:       "Locked",
	CodeServerError:  "Internal Server Error",
}

// HTTPStatus 错误码到响应状态码；0 归一到 200
func HTTPStatus(code int) int {
	if code == CodeOK {
		return 200
	}
	return code
}
