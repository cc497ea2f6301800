package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Subject records the caller's subject id under the key "subject".
func Subject(id string) slog.Attr {
	return slog.String("subject", id)
}

// TenantSlug records the tenant slug under the key "tenant".
func TenantSlug(slug string) slog.Attr {
	return slog.String("tenant", slug)
}

// Role records a role name under the key "role".
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
