package insights

import "errors"

var (
	ErrMissingInput   = errors.New("insights: questions and responses are required")
	ErrMissingAPIKey  = errors.New("insights: api key must not be empty")
	ErrUpstream       = errors.New("insights: model request failed")
	ErrMalformedReply = errors.New("insights: model reply is not valid JSON")
)
