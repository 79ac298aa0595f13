package upload

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// URLPrefix is the public path under which stored files are served. Media
// announcements over the chat protocol are only accepted for URLs under it.
const URLPrefix = "/uploads/"

// DefaultMaxBytes caps uploads at 5 MB.
const DefaultMaxBytes = 5 << 20

// Enumerable rejection reasons, safe to surface to clients verbatim.
// Anything else is an internal error and must be masked before it reaches
// a client.
var (
	ErrNoFile         = errors.New("No file uploaded")
	ErrTypeNotAllowed = errors.New("File type not allowed")
	ErrTooLarge       = errors.New("File too large")
)

// extByMime is the MIME allow-list. The stored extension comes from this
// table, never from the user-supplied filename.
var extByMime = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"audio/mpeg":      ".mp3",
	"audio/ogg":       ".ogg",
	"application/pdf": ".pdf",
}

// Result describes a stored upload. URL is server-relative under URLPrefix.
type Result struct {
	URL      string `json:"url"`
	Mimetype string `json:"mimetype"`
}

// Service validates uploads and stores them on local disk under generated
// collision-resistant names.
type Service struct {
	dir      string
	maxBytes int64
	log      *zerolog.Logger
}

// NewService creates the upload directory if needed.
func NewService(dir string, maxBytes int64, logger *zerolog.Logger) (*Service, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{dir: dir, maxBytes: maxBytes, log: logger}, nil
}

// MaxBytes returns the configured size cap.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Dir returns the storage directory.
func (s *Service) Dir() string {
	return s.dir
}

// Store validates the payload against the allow-list and size cap, then
// writes it under a fresh uuid name. Nothing is written on rejection.
func (s *Service) Store(data []byte, declaredMime string) (Result, error) {
	if len(data) == 0 {
		return Result{}, ErrNoFile
	}
	if int64(len(data)) > s.maxBytes {
		return Result{}, ErrTooLarge
	}
	ext, ok := extByMime[declaredMime]
	if !ok {
		return Result{}, ErrTypeNotAllowed
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return Result{}, fmt.Errorf("write upload: %w", err)
	}

	s.log.Info().Str("file", name).Str("mimetype", declaredMime).Int("size", len(data)).Msg("stored upload")
	return Result{URL: path.Join(URLPrefix, name), Mimetype: declaredMime}, nil
}
