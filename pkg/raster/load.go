package raster

import(
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

// A Source is an image decoded from a file, plus what we could learn
// about it along the way.
type Source struct {
	LoadFilename string
	Format       string // png, jpeg, tiff, hdr
	Orientation  int    // EXIF orientation, already applied to the pixels
	CameraModel  string // EXIF Model, if any

	*Buffer             // Upright pixels, at intrinsic resolution
}

func (s Source)String() string {
	str := fmt.Sprintf("%s: %s %dx%d", s.Filename(), s.Format, s.Width, s.Height)
	if s.Orientation > OrientNormal {
		str += fmt.Sprintf(", exif orientation %d", s.Orientation)
	}
	if s.CameraModel != "" {
		str += fmt.Sprintf(", %s", s.CameraModel)
	}
	return str
}

func (s Source)Filename() string {
	return filepath.Base(s.LoadFilename)
}

// IsImageFile reports whether Load knows how to decode the file, going by its extension.
func IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".hdr":
		return true
	}
	return false
}

// Load decodes an image file into an upright 8-bit RGBA buffer.
// Radiance .hdr files are linearly tonemapped down to 8 bits.
func Load(filename string) (*Source, error) {
	s := &Source{LoadFilename: filename, Orientation: OrientNormal}

	var img image.Image
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hdr":
		s.Format = "hdr"
		img, err = loadHDR(filename)
	case ".tif", ".tiff":
		s.Format = "tiff"
		img, err = loadWith(filename, tiff.Decode)
	default:
		img, s.Format, err = loadStd(filename)
	}
	if err != nil {
		return nil, err
	}

	if s.Format == "jpeg" || s.Format == "tiff" {
		s.readExif(filename)
	}

	s.Buffer = FromImage(img).Reorient(s.Orientation)
	if s.Empty() {
		return nil, fmt.Errorf("image '%s' has no pixels", filename)
	}

	return s, nil
}

func loadWith(filename string, decode func(io.Reader) (image.Image, error)) (image.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r img '%s': %v", filename, err)
	}
	defer reader.Close()

	img, err := decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %v", filename, err)
	}
	return img, nil
}

func loadStd(filename string) (image.Image, string, error) {
	var format string
	img, err := loadWith(filename, func(r io.Reader) (image.Image, error) {
		img, name, err := image.Decode(r)
		format = name
		return img, err
	})
	return img, format, err
}

func loadHDR(filename string) (image.Image, error) {
	img, err := loadWith(filename, rgbe.Decode)
	if err != nil {
		return nil, err
	}

	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("'%s' did not decode to an HDR image", filename)
	}

	return tmo.NewLinear(hdrImg).Perform(), nil
}

// readExif is best effort; lots of files have no EXIF block, which is fine.
func (s *Source)readExif(filename string) {
	reader, err := os.Open(filename)
	if err != nil {
		return
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return
	}

	if tag, err := ex.Get(exif.Orientation); err == nil {
		if val, err := tag.Int(0); err == nil {
			s.Orientation = val
		}
	}
	if tag, err := ex.Get(exif.Model); err == nil {
		if val, err := tag.StringVal(); err == nil {
			s.CameraModel = strings.TrimSpace(val)
		}
	}
}
