package log

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

func init() {
	zerolog.ErrorStackMarshaler = extractStacktrace
	zerolog.ErrorMarshalFunc = marshalError
}

// extractStacktrace returns the innermost-first stack recorded by
// cockroachdb/errors, or nil so zerolog omits the field.
func extractStacktrace(err error) interface{} {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		details := errors.GetSafeDetails(e).SafeDetails
		if len(details) > 0 && details[0] != "" {
			return details[0]
		}
	}
	return nil
}

// structuredError logs the message together with the fields of the typed
// error found in the chain.
type structuredError struct {
	err error
	obj zerolog.LogObjectMarshaler
}

func (s structuredError) MarshalZerologObject(e *zerolog.Event) {
	e.Str("message", s.err.Error())
	s.obj.MarshalZerologObject(e)
}

func marshalError(err error) interface{} {
	var obj zerolog.LogObjectMarshaler
	if errors.As(err, &obj) {
		return structuredError{err: err, obj: obj}
	}
	return err
}
