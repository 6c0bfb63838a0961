package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPath is the bundled Korean-capable font, relative to the
// working directory as in the original layout.
const DefaultFontPath = "fonts/Pretendard-Bold.ttf"

// systemFontPaths are tried in order when the bundled font is absent.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/AppleSDGothicNeo.ttc",
}

// Faces holds the label and title faces used by both renderers. The zero
// value is usable: drawing falls back to the builtin bitmap face.
type Faces struct {
	Title font.Face
	Label font.Face
}

// LoadFaces loads the font at path, falling back to known system fonts and
// finally to the builtin bitmap face. It never fails: missing fonts degrade
// the figure, they do not break it.
func LoadFaces(path string) Faces {
	candidates := []string{path, DefaultFontPath}
	candidates = append(candidates, systemFontPaths...)
	for _, p := range candidates {
		if p == "" {
			continue
		}
		faces, err := loadFile(p)
		if err == nil {
			return faces
		}
	}
	return Faces{Title: basicfont.Face7x13, Label: basicfont.Face7x13}
}

func loadFile(path string) (Faces, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Faces{}, err
	}
	ft, err := opentype.Parse(b)
	if err != nil {
		return Faces{}, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	title, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: 18, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return Faces{}, err
	}
	label, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return Faces{}, err
	}
	return Faces{Title: title, Label: label}, nil
}
