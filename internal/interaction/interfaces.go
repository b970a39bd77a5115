package interaction

//go:generate mockgen -source=interfaces.go -destination=../mock/interaction_mock.go -package=mock

// Confirmer asks the user a yes/no question. The answer may arrive later;
// resolve is called exactly once with it.
type Confirmer interface {
	Ask(prompt string, resolve func(confirmed bool))
}

// Notifier shows short user-visible notices.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}
