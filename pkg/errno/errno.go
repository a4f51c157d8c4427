package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrActionNotFound        = Errno{Code: 20101, Message: "Action not found"}
	ErrInvalidActionShape    = Errno{Code: 20102, Message: "Stored action fields do not match its action type"}
	ErrUnsupportedActionType = Errno{Code: 20103, Message: "Unsupported action type"}
	ErrInvalidAmount         = Errno{Code: 20104, Message: "Amount is not a valid positive decimal for this chain"}
	ErrInvalidAddress        = Errno{Code: 20105, Message: "Malformed chain address"}
	ErrInvalidTokenID        = Errno{Code: 20106, Message: "Token id is not a non-negative integer"}
	ErrShortIDExhausted      = Errno{Code: 20107, Message: "Could not allocate a unique short id"}
)
