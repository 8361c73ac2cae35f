package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
)

var ErrInvalidAtlas = errors.New("invalid atlas")

/**
 * @brief A page image of a texture atlas.
 */
type AtlasPage struct {
	Name   string
	Width  int
	Height int
	// Pixels in the page are already premultiplied.
	PremultipliedAlpha bool
}

/**
 * @brief A packed rectangle inside an atlas page. Width and Height are the
 * unrotated size of the packed pixels.
 */
type AtlasRegion struct {
	Name           string
	Page           int
	X, Y           int
	Width, Height  int
	Rotate         bool
	OriginalWidth  int
	OriginalHeight int
	OffsetX        int
	OffsetY        int
}

/**
 * @brief A libGDX/Spine text atlas.
 */
type Atlas struct {
	Pages   []*AtlasPage
	Regions []*AtlasRegion

	byName map[string]*AtlasRegion
}

// FindRegion resolves a region to normalised page coordinates.
func (a *Atlas) FindRegion(name string) (*skeleton.TextureRegion, bool) {
	r, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	page := a.Pages[r.Page]
	pw, ph := float32(page.Width), float32(page.Height)

	packedW, packedH := r.Width, r.Height
	if r.Rotate {
		packedW, packedH = r.Height, r.Width
	}
	return &skeleton.TextureRegion{
		Name:           r.Name,
		U:              float32(r.X) / pw,
		V:              float32(r.Y) / ph,
		U2:             float32(r.X+packedW) / pw,
		V2:             float32(r.Y+packedH) / ph,
		Rotate:         r.Rotate,
		Width:          r.Width,
		Height:         r.Height,
		OriginalWidth:  r.OriginalWidth,
		OriginalHeight: r.OriginalHeight,
		OffsetX:        r.OffsetX,
		OffsetY:        r.OffsetY,
	}, true
}

type AtlasLoader struct{}

func (al *AtlasLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	atlas, err := ParseAtlas(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     atlas,
	}, nil
}

func (al *AtlasLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

func splitValues(v string) []string {
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseInts(v string, want int) ([]int, error) {
	parts := splitValues(v)
	if len(parts) < want {
		return nil, fmt.Errorf("%w: expected %d values in %q", ErrInvalidAtlas, want, v)
	}
	out := make([]int, want)
	for i := 0; i < want; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrInvalidAtlas, parts[i])
		}
		out[i] = n
	}
	return out, nil
}

// ParseAtlas reads both the indented legacy layout and the Spine 4 layout
// (bounds/offsets keys).
func ParseAtlas(r io.Reader) (*Atlas, error) {
	atlas := &Atlas{byName: make(map[string]*AtlasRegion)}
	scanner := bufio.NewScanner(r)

	var page *AtlasPage
	var region *AtlasRegion
	expectPage := true
	line := 0

	finishRegion := func() {
		if region == nil {
			return
		}
		if region.OriginalWidth == 0 && region.OriginalHeight == 0 {
			region.OriginalWidth, region.OriginalHeight = region.Width, region.Height
		}
		atlas.Regions = append(atlas.Regions, region)
		if _, dup := atlas.byName[region.Name]; !dup {
			atlas.byName[region.Name] = region
		}
		region = nil
	}

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			finishRegion()
			expectPage = true
			continue
		}

		key, value, isPair := strings.Cut(text, ":")
		if !isPair {
			finishRegion()
			if expectPage {
				page = &AtlasPage{Name: text}
				atlas.Pages = append(atlas.Pages, page)
				expectPage = false
				continue
			}
			region = &AtlasRegion{Name: text, Page: len(atlas.Pages) - 1}
			continue
		}
		expectPage = false
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if page == nil {
			return nil, fmt.Errorf("%w: line %d: %q before any page", ErrInvalidAtlas, line, key)
		}

		var err error
		if region == nil {
			err = parsePageKey(page, key, value)
		} else {
			err = parseRegionKey(region, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	finishRegion()

	if len(atlas.Pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrInvalidAtlas)
	}
	for _, p := range atlas.Pages {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, fmt.Errorf("%w: page %q has no size", ErrInvalidAtlas, p.Name)
		}
	}
	return atlas, nil
}

func parsePageKey(page *AtlasPage, key, value string) error {
	switch key {
	case "size":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		page.Width, page.Height = v[0], v[1]
	case "pma":
		page.PremultipliedAlpha = value == "true"
	}
	// format, filter and repeat only matter to a GPU uploader
	return nil
}

func parseRegionKey(region *AtlasRegion, key, value string) error {
	switch key {
	case "xy":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		region.X, region.Y = v[0], v[1]
	case "size":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		region.Width, region.Height = v[0], v[1]
	case "bounds":
		v, err := parseInts(value, 4)
		if err != nil {
			return err
		}
		region.X, region.Y, region.Width, region.Height = v[0], v[1], v[2], v[3]
	case "orig":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		region.OriginalWidth, region.OriginalHeight = v[0], v[1]
	case "offset":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		region.OffsetX, region.OffsetY = v[0], v[1]
	case "offsets":
		v, err := parseInts(value, 4)
		if err != nil {
			return err
		}
		region.OffsetX, region.OffsetY = v[0], v[1]
		region.OriginalWidth, region.OriginalHeight = v[2], v[3]
	case "rotate":
		switch value {
		case "true", "90":
			region.Rotate = true
		case "false", "0":
			region.Rotate = false
		default:
			return fmt.Errorf("%w: unsupported rotation %q", ErrInvalidAtlas, value)
		}
	}
	return nil
}
