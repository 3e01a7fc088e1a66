// Package apperr names the failure categories a run can end in, so callers
// and tests can branch on the category instead of the message text.
package apperr

import "errors"

var (
	ErrConfig    = errors.New("config error")
	ErrPersist   = errors.New("persist error")
	ErrToken     = errors.New("token error")
	ErrTransport = errors.New("transport error")
	ErrFetch     = errors.New("fetch error")
	ErrDecode    = errors.New("decode error")
	ErrTime      = errors.New("time error")
	ErrNotify    = errors.New("notify error")
	ErrEncode    = errors.New("encode error")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindPersist
	KindToken
	KindTransport
	KindFetch
	KindDecode
	KindTime
	KindNotify
	KindEncode
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindConfig:    "config",
	KindPersist:   "persist",
	KindToken:     "token",
	KindTransport: "transport",
	KindFetch:     "fetch",
	KindDecode:    "decode",
	KindTime:      "time",
	KindNotify:    "notify",
	KindEncode:    "encode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Order matters: an error wrapping several sentinels reports the outermost
// category first (a token refresh that failed in transport is a token error).
var kindOrder = []struct {
	kind Kind
	err  error
}{
	{KindConfig, ErrConfig},
	{KindPersist, ErrPersist},
	{KindToken, ErrToken},
	{KindNotify, ErrNotify},
	{KindFetch, ErrFetch},
	{KindDecode, ErrDecode},
	{KindTime, ErrTime},
	{KindEncode, ErrEncode},
	{KindTransport, ErrTransport},
}

// KindOf reports the category of err, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, entry := range kindOrder {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindUnknown
}
