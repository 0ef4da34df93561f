package symalign

import(
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/symalign/pkg/raster"
)

// LoadFilesAndDirs loads a .yaml config and one image, from the args
// or from inside directories named in the args.
func (s *Session)LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %v", arg, err)
				}
			}

		default: // is a file, load it
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

func (s *Session)loadFile(filename string) error {
	switch {

	case strings.ToLower(filepath.Ext(filename)) == ".yaml":
		cfg, err := loadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
		s.Refresh()

	case raster.IsImageFile(filename):
		if s.HasImage() {
			return fmt.Errorf("already have an image (%s), only one per session", s.Source.Filename())
		}
		if err := s.LoadFile(filename); err != nil {
			return err
		}
	}

	return nil
}

func loadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	return newConfigFromYaml(contents)
}
