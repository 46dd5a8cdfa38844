// Package api implements the REST client for the Track-kar backend.
// It is a thin wrapper: every method issues one HTTP request and maps the
// response to client-side models, leaving all state to the callers.
package api

import (
	"context"

	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// TokenSource supplies the current bearer token for authenticated requests.
// An empty string means no session; the Authorization header is omitted.
type TokenSource interface {
	Token() string
}

// AuthResponse is the body returned by the signup and login endpoints.
type AuthResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	UserID string `json:"userId,omitempty"`
}

// GPSValidation is the result of checking a tracker identifier.
type GPSValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// GPSVerification is the result of pairing a device with a plate number.
type GPSVerification struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}

// Client defines the backend operations the application uses.
//
// Contract:
//   - Methods never mutate client-side state; they return the server's view.
//   - Non-success responses are converted to descriptive errors carrying the
//     server's message when one is present.
//   - All methods honor context cancellation and deadlines.
type Client interface {
	Signup(ctx context.Context, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)

	ListAssets(ctx context.Context) ([]models.Asset, error)
	GetAsset(ctx context.Context, gpsID string) (*models.Asset, error)
	CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	ValidateGPS(ctx context.Context, gpsID string) (*GPSValidation, error)
	SubmitGPSApplication(ctx context.Context, app models.GPSApplication) error
	VerifyGPSDevice(ctx context.Context, gpsID, plateNumber string) (*GPSVerification, error)

	GetLocation(ctx context.Context, vehicleID string) (*models.Location, error)
	GetLocationHistory(ctx context.Context, vehicleID, start, end string) ([]models.HistoryDay, error)

	Close() error
}
