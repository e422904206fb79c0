package output

import (
	"bytes"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// Pixels are mapped to millimetres at 96 DPI.
const pixelsPerInch = 96
const mmPerInch = 25.4

func pixelsToMm(pixels int) float64 {
	return float64(pixels) * mmPerInch / pixelsPerInch
}

// writePDF stores img as a single page sized exactly to the image.
func writePDF(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	wMm := pixelsToMm(img.Bounds().Dx())
	hMm := pixelsToMm(img.Bounds().Dy())
	// "P" keeps Size as given; "L" would swap width and height.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: wMm, Ht: hMm},
	})
	pdf.SetTitle("regionshot capture", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", opt, &buf)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	pdf.ImageOptions("capture", 0, 0, w, h, false, opt, 0, "")
	return pdf.OutputFileAndClose(path)
}
