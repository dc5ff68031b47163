package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")

	// Ошибки конфликтов
	ErrTeamCodeConflict      = errors.New("team code is already in use")
	ErrTeamInUse             = errors.New("team is in use by matches and cannot be deleted")
	ErrHeroNameConflict      = errors.New("hero name is already in use")
	ErrItemNameConflict      = errors.New("item name is already in use")
	ErrSeedConflict          = errors.New("seed is already taken in this tournament")
	ErrTeamAlreadyRegistered = errors.New("team is already registered for this tournament")
	ErrGameNumberConflict    = errors.New("game number already exists for this match")
	ErrStageOrderConflict    = errors.New("stage order is already used in this tournament")
	ErrImageExists           = errors.New("an image already exists at this path")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Хранилище картинок не настроено: падают только загрузки.
	ErrStorageNotConfigured = errors.New("storage is not configured")

	// Ошибки, специфичные для сущностей
	ErrTeamNotFound           = errors.New("team not found")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrHeroNotFound           = errors.New("hero not found")
	ErrItemNotFound           = errors.New("item not found")
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrStageNotFound          = errors.New("tournament stage not found")
	ErrTournamentTeamNotFound = errors.New("tournament team not found")
	ErrMatchNotFound          = errors.New("match not found")
	ErrGameNotFound           = errors.New("game not found")
	ErrStatisticNotFound      = errors.New("statistic not found")
)
