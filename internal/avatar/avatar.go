// Package avatar baja una imagen, la procesa y la devuelve como PNG listo para
// subir como avatar de la cuenta.
package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Source lo implementa apexapi.Client.
type Source interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Processor transforma la imagen decodificada antes de codificarla.
type Processor func(image.Image) image.Image

type Renderer struct {
	Source  Source
	Process Processor
}

func NewRenderer(src Source, p Processor) *Renderer {
	return &Renderer{Source: src, Process: p}
}

// Render: download -> decode -> process -> PNG. Si algo falla no hay bytes.
func (r *Renderer) Render(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("avatar: empty url")
	}
	raw, err := r.Source.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("avatar download: %w", err)
	}
	return Encode(raw, r.Process)
}

// Encode decodifica raw, aplica p (si no es nil) y re-codifica a PNG.
func Encode(raw []byte, p Processor) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("avatar decode: %w", err)
	}
	if p != nil {
		img = p(img)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("avatar encode: %w", err)
	}
	return buf.Bytes(), nil
}
