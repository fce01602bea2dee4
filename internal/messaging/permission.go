package messaging

import "context"

// PermissionState mirrors the notification permission of a display platform.
type PermissionState string

const (
	PermissionDefault PermissionState = "default"
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// Permission is implemented by display facilities that must be allowed
// before they can show notifications.
type Permission interface {
	PermissionStatus() PermissionState
	RequestPermission(ctx context.Context) (PermissionState, error)
}

// EnsurePermission asks for permission unless it was already granted.
func EnsurePermission(ctx context.Context, p Permission) (PermissionState, error) {
	if st := p.PermissionStatus(); st == PermissionGranted {
		return st, nil
	}
	return p.RequestPermission(ctx)
}
