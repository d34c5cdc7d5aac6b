package ui

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"
)

// RenderFrame converts a base64-encoded screenshot into a half-block
// ANSI mosaic no wider than maxCols cells and no taller than maxRows
// lines. Each cell carries two vertically stacked pixels via the upper
// half block, so the effective resolution is maxCols x 2*maxRows.
func RenderFrame(encoded string, maxCols, maxRows int) (string, error) {
	if maxCols < 1 || maxRows < 1 {
		return "", fmt.Errorf("preview area too small (%dx%d)", maxCols, maxRows)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("decoding frame: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decoding frame image: %w", err)
	}

	scaled := scaleToFit(img, maxCols, maxRows*2)
	return halfBlocks(scaled), nil
}

// scaleToFit downscales preserving aspect ratio. Images already inside
// the bounds pass through untouched.
func scaleToFit(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > maxW || h > maxH {
		scale := float64(maxW) / float64(w)
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// halfBlocks renders two pixel rows per text line: the upper half block
// takes the top pixel as foreground and the bottom pixel as background.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hexColor(img, x, y)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(top))
			if y+1 < b.Max.Y {
				style = style.Background(lipgloss.Color(hexColor(img, x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(img *image.RGBA, x, y int) string {
	c := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
