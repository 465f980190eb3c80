package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ProcessedAvatar contains the stored variants of an uploaded avatar
type ProcessedAvatar struct {
	Avatar      []byte
	Thumbnail   []byte
	ContentType string
	Size        int // avatar edge length in pixels
	ThumbSize   int // thumbnail edge length in pixels
}

// Config for avatar processing
type Config struct {
	AvatarSize int // square edge for the main variant (default 512)
	ThumbSize  int // square edge for the thumbnail (default 128)
	Quality    int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		AvatarSize: 512,
		ThumbSize:  128,
		Quality:    85,
	}
}

// Processor handles avatar processing
type Processor struct {
	config Config
}

// NewProcessor creates avatar processor
func NewProcessor(config Config) *Processor {
	if config.AvatarSize <= 0 {
		config.AvatarSize = 512
	}
	if config.ThumbSize <= 0 {
		config.ThumbSize = 128
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// Process decodes an uploaded image and produces a square avatar plus thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedAvatar, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Center-crop to square, then scale each variant down
	avatar := imaging.Fill(img, p.config.AvatarSize, p.config.AvatarSize, imaging.Center, imaging.Lanczos)
	thumb := imaging.Resize(avatar, p.config.ThumbSize, p.config.ThumbSize, imaging.Lanczos)

	avatarBytes, err := p.encode(avatar, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	thumbBytes, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ProcessedAvatar{
		Avatar:      avatarBytes,
		Thumbnail:   thumbBytes,
		ContentType: mimeFromFormat(format),
		Size:        p.config.AvatarSize,
		ThumbSize:   p.config.ThumbSize,
	}, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		// Everything else gets re-encoded as JPEG
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// Ext returns the stored file extension for a processed avatar
func Ext(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
