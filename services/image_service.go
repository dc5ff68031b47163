package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/arenarium/brackets"
	"github.com/Dosada05/arenarium/repositories"
	"github.com/Dosada05/arenarium/storage"
)

const MaxImageSize = 5 << 20

// ImageFile: загружаемый файл из multipart-формы.
type ImageFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type UploadImageInput struct {
	Bucket   string
	FileName string
	File     ImageFile
}

type UploadedImage struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

type ImageService interface {
	Upload(ctx context.Context, input UploadImageInput) (*UploadedImage, error)
	Delete(ctx context.Context, bucket, objectPath string) error

	SetTeamLogo(ctx context.Context, teamID int, file ImageFile) (*UploadedImage, error)
	SetPlayerPhoto(ctx context.Context, playerID int, file ImageFile) (*UploadedImage, error)
	SetHeroImage(ctx context.Context, heroID int, file ImageFile) (*UploadedImage, error)
	SetTournamentImage(ctx context.Context, tournamentID int, column repositories.TournamentImageColumn, file ImageFile) (*UploadedImage, error)
	AddMatchScreenshot(ctx context.Context, matchID int, file ImageFile) (*UploadedImage, error)
}

type imageService struct {
	uploader       storage.FileUploader
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	heroRepo       repositories.HeroRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	deps           Deps
}

func NewImageService(
	uploader storage.FileUploader,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	heroRepo repositories.HeroRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	deps Deps,
) ImageService {
	return &imageService{
		uploader:       uploader,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		heroRepo:       heroRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		deps:           deps,
	}
}

// validatedImage: файл, прочитанный в память и прошедший проверки.
type validatedImage struct {
	data        []byte
	contentType string
	ext         string
}

// readImage проверяет тип и размер до любого обращения к хранилищу.
func readImage(file ImageFile) (*validatedImage, error) {
	if file.Reader == nil {
		return nil, validationError("file is required")
	}
	if file.Size > MaxImageSize {
		return nil, validationError("file is too large (max %d MB)", MaxImageSize>>20)
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	if !strings.HasPrefix(declared, "image/") {
		return nil, validationError("file must be an image")
	}

	data, err := io.ReadAll(io.LimitReader(file.Reader, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, validationError("file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, validationError("file is too large (max %d MB)", MaxImageSize>>20)
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") && !isSVG(declared, sniffed) {
		return nil, validationError("file content is not an image")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext, err = GetExtensionFromContentType(declared)
		if err != nil {
			return nil, validationError("%v", err)
		}
	}
	return &validatedImage{data: data, contentType: declared, ext: ext}, nil
}

// DetectContentType не распознаёт SVG, он определяется как текст или XML.
func isSVG(declared, sniffed string) bool {
	return declared == "image/svg+xml" &&
		(strings.HasPrefix(sniffed, "text/xml") || strings.HasPrefix(sniffed, "text/plain"))
}

// Upload кладёт файл по пути fileName + расширение. Существующий объект не перезаписывается.
func (s *imageService) Upload(ctx context.Context, input UploadImageInput) (*UploadedImage, error) {
	if strings.TrimSpace(input.Bucket) == "" || strings.TrimSpace(input.FileName) == "" {
		return nil, validationError("bucket and fileName are required")
	}
	bucket, err := storage.ParseBucket(input.Bucket)
	if err != nil {
		return nil, validationError("%v", err)
	}
	name, err := cleanObjectPath(input.FileName)
	if err != nil {
		return nil, err
	}
	img, err := readImage(input.File)
	if err != nil {
		return nil, err
	}
	return s.put(ctx, bucket, name+img.ext, img)
}

func (s *imageService) Delete(ctx context.Context, bucketName, objectPath string) error {
	bucket, err := storage.ParseBucket(bucketName)
	if err != nil {
		return validationError("%v", err)
	}
	key, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	if err := s.uploader.Delete(ctx, bucket, key); err != nil {
		return mapStorageError(err)
	}
	s.deps.logger().Info("image deleted", slog.String("bucket", bucket.String()), slog.String("path", key))
	return nil
}

// Set* методы сначала проверяют файл, потом ищут сущность: плохой файл
// отклоняется без обращения к базе и хранилищу.
func (s *imageService) SetTeamLogo(ctx context.Context, teamID int, file ImageFile) (*UploadedImage, error) {
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, mapTeamRepoError(err, "get team")
	}
	uploaded, err := s.putEntityImage(ctx, storage.BucketTeamLogos, teamID, img)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.UpdateLogo(ctx, teamID, &uploaded.URL); err != nil {
		s.discard(ctx, storage.BucketTeamLogos, uploaded)
		return nil, mapTeamRepoError(err, "update team logo")
	}
	s.deps.invalidate(ctx, cacheTeams, cachePlayers, cacheMatches, cacheTournaments, cacheStatistics)
	s.deps.publish(brackets.RoomTeams, brackets.EventImageUpdated, EntityEvent{Entity: "team", ID: teamID, URL: uploaded.URL})
	return uploaded, nil
}

func (s *imageService) SetPlayerPhoto(ctx context.Context, playerID int, file ImageFile) (*UploadedImage, error) {
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, mapPlayerRepoError(err, "get player")
	}
	uploaded, err := s.putEntityImage(ctx, storage.BucketPlayerPhotos, playerID, img)
	if err != nil {
		return nil, err
	}
	if err := s.playerRepo.UpdatePhoto(ctx, playerID, &uploaded.URL); err != nil {
		s.discard(ctx, storage.BucketPlayerPhotos, uploaded)
		return nil, mapPlayerRepoError(err, "update player photo")
	}
	s.deps.invalidate(ctx, cachePlayers, cacheTeams)
	s.deps.publish(brackets.RoomPlayers, brackets.EventImageUpdated, EntityEvent{Entity: "player", ID: playerID, URL: uploaded.URL})
	return uploaded, nil
}

func (s *imageService) SetHeroImage(ctx context.Context, heroID int, file ImageFile) (*UploadedImage, error) {
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	if _, err := s.heroRepo.GetByID(ctx, heroID); err != nil {
		return nil, mapCatalogError(err, "get hero")
	}
	uploaded, err := s.putEntityImage(ctx, storage.BucketHeroImages, heroID, img)
	if err != nil {
		return nil, err
	}
	if err := s.heroRepo.UpdateImage(ctx, heroID, &uploaded.URL); err != nil {
		s.discard(ctx, storage.BucketHeroImages, uploaded)
		return nil, mapCatalogError(err, "update hero image")
	}
	s.deps.invalidate(ctx, cacheHeroes)
	s.deps.publish(brackets.RoomHeroes, brackets.EventImageUpdated, EntityEvent{Entity: "hero", ID: heroID, URL: uploaded.URL})
	return uploaded, nil
}

func (s *imageService) SetTournamentImage(ctx context.Context, tournamentID int, column repositories.TournamentImageColumn, file ImageFile) (*UploadedImage, error) {
	if column != repositories.TournamentLogo && column != repositories.TournamentBanner {
		return nil, validationError("unknown tournament image %q", column)
	}
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentRepoError(err, "get tournament")
	}
	uploaded, err := s.putEntityImage(ctx, storage.BucketTournamentAssets, tournamentID, img)
	if err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.UpdateImage(ctx, tournamentID, column, &uploaded.URL); err != nil {
		s.discard(ctx, storage.BucketTournamentAssets, uploaded)
		return nil, mapTournamentRepoError(err, "update tournament image")
	}
	s.deps.invalidate(ctx, cacheTournaments, cacheMatches)
	payload := EntityEvent{Entity: "tournament_" + string(column), ID: tournamentID, URL: uploaded.URL}
	s.deps.publish(brackets.RoomTournaments, brackets.EventImageUpdated, payload)
	s.deps.publish(tournamentRoom(tournamentID), brackets.EventImageUpdated, payload)
	return uploaded, nil
}

// AddMatchScreenshot только загружает файл: колонки для скриншотов у матча нет.
func (s *imageService) AddMatchScreenshot(ctx context.Context, matchID int, file ImageFile) (*UploadedImage, error) {
	img, err := readImage(file)
	if err != nil {
		return nil, err
	}
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err, "get match")
	}
	uploaded, err := s.putEntityImage(ctx, storage.BucketMatchScreenshots, matchID, img)
	if err != nil {
		return nil, err
	}
	payload := EntityEvent{Entity: "match_screenshot", ID: matchID, URL: uploaded.URL}
	s.deps.publish(brackets.RoomMatches, brackets.EventImageUpdated, payload)
	s.deps.publish(tournamentRoom(match.TournamentID), brackets.EventImageUpdated, payload)
	return uploaded, nil
}

func (s *imageService) putEntityImage(ctx context.Context, bucket storage.Bucket, id int, img *validatedImage) (*UploadedImage, error) {
	key := fmt.Sprintf("%d/%s%s", id, uuid.NewString(), img.ext)
	return s.put(ctx, bucket, key, img)
}

// discard удаляет загруженный объект, если строку в базе обновить не удалось.
func (s *imageService) discard(ctx context.Context, bucket storage.Bucket, uploaded *UploadedImage) {
	if err := s.uploader.Delete(ctx, bucket, uploaded.Path); err != nil {
		s.deps.logger().Error("failed to delete orphaned image",
			slog.String("bucket", bucket.String()),
			slog.String("path", uploaded.Path),
			slog.Any("error", err))
	}
}

func (s *imageService) put(ctx context.Context, bucket storage.Bucket, key string, img *validatedImage) (*UploadedImage, error) {
	res, err := s.uploader.Upload(ctx, bucket, key, img.contentType, bytes.NewReader(img.data))
	if err != nil {
		return nil, mapStorageError(err)
	}
	s.deps.logger().Info("image uploaded",
		slog.String("bucket", bucket.String()),
		slog.String("path", key),
		slog.Int("size", len(img.data)))
	return &UploadedImage{Bucket: res.Bucket, Path: res.Key, URL: res.Location}, nil
}

// cleanObjectPath не даёт выйти за пределы бакета через "..".
func cleanObjectPath(p string) (string, error) {
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	if p == "" {
		return "", validationError("object path is required")
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", validationError("invalid object path %q", p)
	}
	return cleaned, nil
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrObjectExists):
		return ErrImageExists
	case errors.Is(err, storage.ErrNotConfigured):
		return ErrStorageNotConfigured
	}
	return fmt.Errorf("storage operation failed: %w", err)
}
