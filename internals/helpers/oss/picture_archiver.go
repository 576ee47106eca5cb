package helper

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"regexp"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"spectra_backend/internals/configs"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrInvalidKey       = errors.New("invalid object name")
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

/* =======================================================================
   Decode + re-encode
======================================================================= */

// decodeImage sniffs jpeg/png/webp from the first bytes.
func decodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

// PictureToWebP decodes a bare base64 picture, fits it into a
// maxSide x maxSide box keeping the aspect ratio, and encodes lossy WebP.
func PictureToWebP(b64 string, maxSide int, quality float32) ([]byte, error) {
	b64 = strings.TrimSpace(b64)
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// some upstream payloads drop the padding
		if raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "=")); err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
	}

	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}

	if maxSide > 0 {
		b := img.Bounds()
		if b.Dx() > maxSide || b.Dy() > maxSide {
			img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		}
	}
	if quality <= 0 {
		quality = 80
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   OSS archiver
======================================================================= */

// PictureArchiver stores registration pictures in an OSS bucket.
type PictureArchiver struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
	MaxSide    int
	Quality    float32
	log        *zap.Logger
}

func NewPictureArchiver(cfg configs.OSSConfig, log *zap.Logger) (*PictureArchiver, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	return &PictureArchiver{
		Bucket:     bkt,
		Endpoint:   cfg.Endpoint,
		BucketName: cfg.Bucket,
		Prefix:     strings.Trim(cfg.Prefix, "/"),
		PublicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		MaxSide:    cfg.MaxSide,
		Quality:    cfg.Quality,
		log:        log.Named("oss"),
	}, nil
}

// Archive converts the picture to WebP and uploads it as <prefix>/<name>.webp.
func (a *PictureArchiver) Archive(ctx context.Context, name, pictureBase64 string) (string, error) {
	key := a.ObjectKey(name)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	data, err := PictureToWebP(pictureBase64, a.MaxSide, a.Quality)
	if err != nil {
		return "", err
	}

	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := a.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	a.log.Debug("picture archived", zap.String("key", key), zap.Int("bytes", len(data)))
	return a.PublicURL(key), nil
}

// ObjectKey keeps only [A-Za-z0-9_-] from name. It returns "" when nothing
// usable is left.
func (a *PictureArchiver) ObjectKey(name string) string {
	base := strings.Trim(unsafeKeyChars.ReplaceAllString(name, "_"), "_")
	if base == "" {
		return ""
	}
	key := base + ".webp"
	if a.Prefix != "" {
		key = a.Prefix + "/" + key
	}
	return key
}

func (a *PictureArchiver) PublicURL(key string) string {
	if a.PublicBase != "" {
		return a.PublicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", a.BucketName, a.Endpoint, key)
}
