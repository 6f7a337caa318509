//go:generate mockgen -destination=mock_callbacks.go -package=callbacks hilsim/internal/callbacks CommandHandler

package callbacks
