package output

import (
	"bytes"
	"fmt"
	"image/png"
	"log"

	"github.com/jung-kurt/gofpdf"
	"github.com/moby/sys/atomicwriter"

	"github.com/yourusername/codeshot/pkg/model"
)

// pointsPerCSSPixel converts CSS pixels (96 DPI) to PDF points (72 DPI)
const pointsPerCSSPixel = 72.0 / 96.0

// Write stores a captured PNG at path, converting it when the extension asks for PDF.
// The file is written to a temporary sibling and renamed into place, so a failed
// write never leaves a partial image behind.
func Write(path string, img []byte, scale float64) error {
	data := img
	format := model.FormatForPath(path)

	if format == model.FormatPDF {
		pdf, err := EncodePDF(img, scale)
		if err != nil {
			return err
		}
		data = pdf
	}

	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Printf("DEBUG: Wrote %d bytes of %s to %s", len(data), format, path)
	return nil
}

// EncodePDF wraps a PNG into a single page PDF whose page matches the image's
// logical size, i.e. its pixel size divided by the device scale.
func EncodePDF(img []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid device scale %v", scale)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to read PNG header: %w", err)
	}

	w := float64(cfg.Width) / scale * pointsPerCSSPixel
	h := float64(cfg.Height) / scale * pointsPerCSSPixel

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("codeshot", true)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("stage", opts, bytes.NewReader(img))
	pdf.ImageOptions("stage", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	out := buf.Bytes()
	if len(out) < 5 || string(out[:5]) != "%PDF-" {
		return nil, fmt.Errorf("output is not a PDF (got %d bytes)", len(out))
	}
	return out, nil
}
