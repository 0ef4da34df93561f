package main

import(
	"testing"

	"github.com/abworrall/symalign/pkg/levels"
	"github.com/abworrall/symalign/pkg/raster"
	"github.com/abworrall/symalign/pkg/symalign"
)

func TestParseLevels(t *testing.T) {
	base := levels.IdentitySettings()

	tests := []struct {
		in      string
		want    levels.Settings
		wantErr bool
	}{
		{"20,100,230", levels.Settings{InputBlack: 20, Midpoint: 100, InputWhite: 230, OutputBlack: 0, OutputWhite: 255}, false},
		{"20, 100, 230, 10, 245", levels.Settings{InputBlack: 20, Midpoint: 100, InputWhite: 230, OutputBlack: 10, OutputWhite: 245}, false},
		{"20,100", base, true},
		{"20,x,230", base, true},
		{"100,20,230", base, true},
		{"-1,20,230", base, true},
		{"20,100,230,-5,300", base, true},
		{"20,100,230,0,300", base, true},
		{"20,100,230,200,200", base, true},
		{"20,100,230,0,255", levels.Settings{InputBlack: 20, Midpoint: 100, InputWhite: 230, OutputBlack: 0, OutputWhite: 255}, false},
	}

	for _, tt := range tests {
		got, err := parseLevels(tt.in, base)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseLevels(%q): err %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("parseLevels(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestReplayDrags(t *testing.T) {
	b, _ := raster.NewBuffer(8, 8)
	s := symalign.NewSession()
	s.Load(&raster.Source{LoadFilename: "blank.png", Buffer: b})

	if err := replayDrags(s, "black=30, mid=100,white=220"); err != nil {
		t.Fatalf("replay: %v", err)
	}
	want := levels.ControlPoints{Black: 30, Mid: 100, White: 220}
	if got := s.Settings().ControlPoints(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	for _, bad := range []string{"black", "grey=10", "mid=ten"} {
		if err := replayDrags(s, bad); err == nil {
			t.Fatalf("replay %q: expected error", bad)
		}
	}
}
