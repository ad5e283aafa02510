package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yllada/mulltray/common"
)

// iconSymbol is the glyph drawn on a generated shield.
type iconSymbol int

const (
	symbolLock iconSymbol = iota
	symbolCheckmark
	symbolDots
	symbolCross
)

// IconConfig defines the look of a generated fallback icon.
type IconConfig struct {
	Size        int
	FillColor   color.RGBA
	BorderColor color.RGBA
	AccentColor color.RGBA
	SymbolColor color.RGBA
	symbol      iconSymbol
}

var white = color.RGBA{255, 255, 255, 255}

// IconConfigFor returns the fallback icon style for id.
func IconConfigFor(id IconID) IconConfig {
	size := common.TrayIconSize
	switch id {
	case IconConnected:
		return IconConfig{
			Size:        size,
			FillColor:   color.RGBA{56, 142, 60, 255},
			BorderColor: color.RGBA{76, 175, 80, 255},
			AccentColor: color.RGBA{200, 230, 201, 255},
			SymbolColor: white,
			symbol:      symbolCheckmark,
		}
	case IconAcquiring:
		return IconConfig{
			Size:        size,
			FillColor:   color.RGBA{245, 124, 0, 255},
			BorderColor: color.RGBA{255, 167, 38, 255},
			AccentColor: color.RGBA{255, 224, 178, 255},
			SymbolColor: white,
			symbol:      symbolDots,
		}
	case IconError:
		return IconConfig{
			Size:        size,
			FillColor:   color.RGBA{198, 40, 40, 255},
			BorderColor: color.RGBA{229, 57, 53, 255},
			AccentColor: color.RGBA{255, 205, 210, 255},
			SymbolColor: white,
			symbol:      symbolCross,
		}
	case IconDisconnected:
		return IconConfig{
			Size:        size,
			FillColor:   color.RGBA{117, 117, 117, 255},
			BorderColor: color.RGBA{158, 158, 158, 255},
			AccentColor: color.RGBA{189, 189, 189, 255},
			SymbolColor: white,
			symbol:      symbolLock,
		}
	default:
		return IconConfig{
			Size:        size,
			FillColor:   color.RGBA{66, 66, 66, 255},
			BorderColor: color.RGBA{97, 97, 97, 255},
			AccentColor: color.RGBA{117, 117, 117, 255},
			SymbolColor: color.RGBA{189, 189, 189, 255},
			symbol:      symbolLock,
		}
	}
}

// IconGenerator draws PNG shield icons.
type IconGenerator struct {
	config IconConfig
}

// NewIconGenerator creates a new icon generator with the given config.
func NewIconGenerator(config IconConfig) *IconGenerator {
	return &IconGenerator{config: config}
}

// Generate creates a PNG icon and returns the bytes.
func (g *IconGenerator) Generate() []byte {
	size := g.config.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	g.paintShield(img, shieldMask(size))
	for _, s := range glyphs[g.config.symbol] {
		g.stroke(img, s)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		common.LogError("Failed to encode tray icon: %v", err)
		return nil
	}
	return buf.Bytes()
}

// segment is a straight stroke between two pixels. Strokes are horizontal,
// vertical or at 45 degrees.
type segment struct{ x0, y0, x1, y1 int }

// glyphs are laid out on the 22px grid.
var glyphs = map[iconSymbol][]segment{
	symbolLock: {
		{8, 10, 14, 10}, {8, 15, 14, 15}, {8, 10, 8, 15}, {14, 10, 14, 15},
		{9, 8, 9, 6}, {9, 6, 13, 6}, {13, 6, 13, 8},
	},
	symbolCheckmark: {
		{6, 11, 8, 13}, {7, 11, 9, 13}, {9, 12, 13, 8}, {9, 13, 14, 8},
	},
	symbolDots: {
		{6, 10, 7, 10}, {6, 11, 7, 11},
		{10, 10, 11, 10}, {10, 11, 11, 11},
		{14, 10, 15, 10}, {14, 11, 15, 11},
	},
	symbolCross: {
		{8, 7, 14, 13}, {14, 7, 8, 13},
	},
}

func (g *IconGenerator) stroke(img *image.RGBA, s segment) {
	dx, dy := sign(s.x1-s.x0), sign(s.y1-s.y0)
	x, y := s.x0, s.y0
	for {
		g.plot(img, x, y)
		if x == s.x1 && y == s.y1 {
			return
		}
		if x != s.x1 {
			x += dx
		}
		if y != s.y1 {
			y += dy
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (g *IconGenerator) plot(img *image.RGBA, x, y int) {
	if x >= 0 && x < g.config.Size && y >= 0 && y < g.config.Size {
		img.Set(x, y, g.config.SymbolColor)
	}
}

// shieldMask marks the pixels inside a shield that narrows slightly to
// its middle and curves to a point at the bottom.
func shieldMask(size int) [][]bool {
	top, bottom := 1.0, float64(size)-2
	half := (float64(size) - 4) / 2
	center := float64(size) / 2

	mask := make([][]bool, size)
	for y := range mask {
		mask[y] = make([]bool, size)
		t := (float64(y) + 0.5 - top) / (bottom - top)
		if t < 0 || t > 1 {
			continue
		}
		width := half - t*0.5
		if t >= 0.5 {
			p := (t - 0.5) * 2
			width = (half - 0.25) * (1 - p*p)
		}
		for x := range mask[y] {
			mask[y][x] = math.Abs(float64(x)+0.5-center) <= width
		}
	}
	return mask
}

// paintShield fills the mask, outlining pixels on its edge and tinting the
// upper band with the accent colour.
func (g *IconGenerator) paintShield(img *image.RGBA, mask [][]bool) {
	size := len(mask)
	inside := func(x, y int) bool {
		return y >= 0 && y < size && x >= 0 && x < size && mask[y][x]
	}
	accentRows := size * 3 / 10

	for y := range mask {
		for x := range mask[y] {
			if !mask[y][x] {
				continue
			}
			switch {
			case !inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1):
				img.Set(x, y, g.config.BorderColor)
			case y < accentRows:
				img.Set(x, y, g.config.AccentColor)
			default:
				img.Set(x, y, g.config.FillColor)
			}
		}
	}
}

// IconResolver turns icon identifiers into PNG bytes. It looks the name up in
// the freedesktop icon theme directories and falls back to a generated icon.
// Results are cached.
type IconResolver struct {
	dirs   []string
	themes []string

	mu    sync.Mutex
	cache map[IconID][]byte
}

// NewIconResolver creates a resolver searching the standard XDG icon
// directories.
func NewIconResolver() *IconResolver {
	return &IconResolver{
		dirs:   iconSearchDirs(),
		themes: []string{"hicolor", "Adwaita"},
		cache:  make(map[IconID][]byte),
	}
}

func iconSearchDirs() []string {
	var dirs []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "icons"))
	}

	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d != "" {
			dirs = append(dirs, filepath.Join(d, "icons"))
		}
	}
	return dirs
}

// Resolve returns PNG bytes for id.
func (r *IconResolver) Resolve(id IconID) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.cache[id]; ok {
		return data
	}

	data := r.lookup(id)
	if data == nil {
		common.LogDebug("No themed PNG for %s, using generated icon", id)
		data = NewIconGenerator(IconConfigFor(id)).Generate()
	}
	r.cache[id] = data
	return data
}

// lookup searches <dir>/<theme>/<size>/<context>/<id>.png, preferring the
// tray icon size.
func (r *IconResolver) lookup(id IconID) []byte {
	preferred := fmt.Sprintf("%dx%d", common.TrayIconSize, common.TrayIconSize)

	for _, dir := range r.dirs {
		for _, theme := range r.themes {
			matches, err := filepath.Glob(filepath.Join(dir, theme, "*", "*", string(id)+".png"))
			if err != nil || len(matches) == 0 {
				continue
			}
			sort.SliceStable(matches, func(i, j int) bool {
				return sizeDir(matches[i]) == preferred && sizeDir(matches[j]) != preferred
			})
			for _, path := range matches {
				if common.FileExists(path) {
					if data, err := os.ReadFile(path); err == nil {
						return data
					}
				}
			}
		}
	}
	return nil
}

func sizeDir(path string) string {
	return filepath.Base(filepath.Dir(filepath.Dir(path)))
}
