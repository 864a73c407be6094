package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestTokenizePBRT(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple statement",
			input:    `Camera "perspective"`,
			expected: []string{`Camera`, `"perspective"`},
		},
		{
			name:     "statement with parameters",
			input:    `Shape "sphere" "float radius" 0.5`,
			expected: []string{`Shape`, `"sphere"`, `"float radius"`, `0.5`},
		},
		{
			name:     "statement with array",
			input:    `Material "phong" "rgb reflectance" [0.7 0.3 0.1]`,
			expected: []string{`Material`, `"phong"`, `"rgb reflectance"`, `[0.7 0.3 0.1]`},
		},
		{
			name:     "light with multiple arrays",
			input:    `LightSource "distant" "point3 from" [0 0 0] "point3 to" [1 1 1]`,
			expected: []string{`LightSource`, `"distant"`, `"point3 from"`, `[0 0 0]`, `"point3 to"`, `[1 1 1]`},
		},
		{
			name:     "tabs between tokens",
			input:    "Shape\t\"sphere\"\t\"float radius\"\t2",
			expected: []string{`Shape`, `"sphere"`, `"float radius"`, `2`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tokenizePBRT(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("tokenizePBRT() = %v, want %v", result, tt.expected)
			}
			for i, token := range result {
				if token != tt.expected[i] {
					t.Errorf("tokenizePBRT()[%d] = %q, want %q", i, token, tt.expected[i])
				}
			}
		})
	}
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedType  string
		expectedSub   string
		expectedParam string
		expectedValue []string
	}{
		{
			name:          "material with RGB",
			input:         `Material "phong" "rgb reflectance" [0.7 0.3 0.1]`,
			expectedType:  "Material",
			expectedSub:   "phong",
			expectedParam: "reflectance",
			expectedValue: []string{"0.7", "0.3", "0.1"},
		},
		{
			name:          "sphere radius",
			input:         `Shape "sphere" "float radius" 1.5`,
			expectedType:  "Shape",
			expectedSub:   "sphere",
			expectedParam: "radius",
			expectedValue: []string{"1.5"},
		},
		{
			name:          "distant light",
			input:         `LightSource "distant" "rgb L" [1 0.5 0]`,
			expectedType:  "LightSource",
			expectedSub:   "distant",
			expectedParam: "L",
			expectedValue: []string{"1", "0.5", "0"},
		},
		{
			name:          "orbit",
			input:         `Orbit "circle" "integer anchor" [0] "integer satellite" 1`,
			expectedType:  "Orbit",
			expectedSub:   "circle",
			expectedParam: "anchor",
			expectedValue: []string{"0"},
		},
		{
			name:          "translate",
			input:         `Translate 1 -2 0.5`,
			expectedType:  "Translate",
			expectedParam: "values",
			expectedValue: []string{"1", "-2", "0.5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parseStatement(tt.input)
			if err != nil {
				t.Fatalf("parseStatement() error = %v", err)
			}
			if stmt.Type != tt.expectedType {
				t.Errorf("parseStatement().Type = %v, want %v", stmt.Type, tt.expectedType)
			}
			if stmt.Subtype != tt.expectedSub {
				t.Errorf("parseStatement().Subtype = %v, want %v", stmt.Subtype, tt.expectedSub)
			}

			param, exists := stmt.Parameters[tt.expectedParam]
			if !exists {
				t.Fatalf("parseStatement() missing parameter %v", tt.expectedParam)
			}
			if strings.Join(param.Values, " ") != strings.Join(tt.expectedValue, " ") {
				t.Errorf("parseStatement().Parameters[%v].Values = %v, want %v",
					tt.expectedParam, param.Values, tt.expectedValue)
			}
		})
	}
}

func TestParseStatement_Errors(t *testing.T) {
	tests := []string{
		`Shape`,
		`Shape "sphere" 0.5`,
		`Shape "sphere" "radius" 0.5`,
		`Shape "sphere" "float radius"`,
	}
	for _, input := range tests {
		if _, err := parseStatement(input); err == nil {
			t.Errorf("parseStatement(%q): expected error", input)
		}
	}
}

func TestParseLookAt(t *testing.T) {
	stmt, err := parseStatement("LookAt 1 2 3 4 5 6 7 8 9")
	if err != nil {
		t.Fatalf("parseStatement() error = %v", err)
	}

	scene := &PBRTScene{}
	if err := parseLookAt(stmt, scene); err != nil {
		t.Fatalf("parseLookAt() error = %v", err)
	}

	if *scene.LookAt != core.NewVec3(1, 2, 3) {
		t.Errorf("parseLookAt() eye = %v", *scene.LookAt)
	}
	if *scene.LookAtTo != core.NewVec3(4, 5, 6) {
		t.Errorf("parseLookAt() at = %v", *scene.LookAtTo)
	}
	if *scene.LookAtUp != core.NewVec3(7, 8, 9) {
		t.Errorf("parseLookAt() up = %v", *scene.LookAtUp)
	}

	short, _ := parseStatement("LookAt 1 2 3")
	if err := parseLookAt(short, scene); err == nil {
		t.Error("parseLookAt() expected error for 3 values")
	}
}

func TestGetParameterMethods(t *testing.T) {
	stmt := &PBRTStatement{
		Parameters: map[string]PBRTParam{
			"radius":    {Type: "float", Values: []string{"0.25"}},
			"anchor":    {Type: "integer", Values: []string{"3"}},
			"L":         {Type: "rgb", Values: []string{"0.8", "0.6", "0.4"}},
			"short":     {Type: "rgb", Values: []string{"1", "2"}},
			"malformed": {Type: "float", Values: []string{"abc"}},
		},
	}

	if radius, ok, err := stmt.GetFloatParam("radius"); err != nil || !ok || radius != 0.25 {
		t.Errorf("GetFloatParam() = %v, %v, %v", radius, ok, err)
	}
	if anchor, ok, err := stmt.GetIntParam("anchor"); err != nil || !ok || anchor != 3 {
		t.Errorf("GetIntParam() = %v, %v, %v", anchor, ok, err)
	}
	if rgb, ok, err := stmt.GetVec3Param("L"); err != nil || !ok || rgb != core.NewVec3(0.8, 0.6, 0.4) {
		t.Errorf("GetVec3Param() = %v, %v, %v", rgb, ok, err)
	}
	if _, ok, err := stmt.GetVec3Param("short"); !ok || err == nil {
		t.Errorf("GetVec3Param() should report two values as present and invalid, got %v, %v", ok, err)
	}
	if _, ok, err := stmt.GetFloatParam("malformed"); !ok || err == nil {
		t.Errorf("GetFloatParam() should report a non-number as present and invalid, got %v, %v", ok, err)
	}
	if _, _, err := stmt.GetIntParam("radius"); err == nil {
		t.Error("GetIntParam() should reject a fractional value")
	}
	if _, ok, err := stmt.GetFloatParam("missing"); ok || err != nil {
		t.Errorf("GetFloatParam() should report a missing parameter without error, got %v, %v", ok, err)
	}
}

func TestParsePBRT_GraphicsState(t *testing.T) {
	content := `# Two spheres sharing a translated frame
LookAt 0 0 -6  0 0 0  0 1 0
Camera "perspective" "float fov" 45

WorldBegin

Material "phong" "rgb reflectance" [0.5 0.5 0.5]
Translate 0 0 1

AttributeBegin
    Material "phong" "rgb reflectance" [0.8 0.2 0.2]
    Translate 1 0 0
    Shape "sphere" "float radius" 0.5
AttributeEnd

Shape "sphere"
    "float radius" 0.25

WorldEnd
`

	scene, err := ParsePBRT(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParsePBRT() error = %v", err)
	}

	if scene.LookAt == nil || scene.LookAt.Z != -6 {
		t.Errorf("Expected LookAt eye z -6, got %v", scene.LookAt)
	}
	if len(scene.Shapes) != 2 {
		t.Fatalf("Expected 2 shapes, got %d", len(scene.Shapes))
	}

	inner, outer := scene.Shapes[0], scene.Shapes[1]
	if inner.Translation != core.NewVec3(1, 0, 1) {
		t.Errorf("Expected nested translation (1,0,1), got %v", inner.Translation)
	}
	if rgb, _, _ := inner.Material.GetVec3Param("reflectance"); rgb != core.NewVec3(0.8, 0.2, 0.2) {
		t.Errorf("Expected block material, got %v", rgb)
	}

	// AttributeEnd restores the outer material and translation
	if outer.Translation != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected restored translation (0,0,1), got %v", outer.Translation)
	}
	if rgb, _, _ := outer.Material.GetVec3Param("reflectance"); rgb != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected restored material, got %v", rgb)
	}
	if radius, _, _ := outer.Shape.GetFloatParam("radius"); radius != 0.25 {
		t.Errorf("Expected multi-line radius 0.25, got %f", radius)
	}
}

func TestParsePBRT_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"shape before WorldBegin", `Shape "sphere"`},
		{"rotate", "WorldBegin\nRotate 45 0 0 1\nWorldEnd"},
		{"unknown statement", "WorldBegin\nNamedMaterial \"x\"\nWorldEnd"},
		{"unbalanced AttributeEnd", "WorldBegin\nAttributeEnd\nWorldEnd"},
		{"unterminated AttributeBegin", "WorldBegin\nAttributeBegin\nShape \"sphere\""},
		{"continuation without statement", "WorldBegin\n\"float radius\" 1"},
		{"bad translate", "WorldBegin\nTranslate 1 2\nWorldEnd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePBRT(strings.NewReader(tt.content)); err == nil {
				t.Errorf("Expected error for %q", tt.content)
			}
		})
	}
}

func TestLoadPBRT_PathValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"empty", ""},
		{"outside scenes", "/etc/passwd.pbrt"},
		{"wrong extension", "scenes/orbit.txt"},
		{"null byte", "scenes/orbit\x00.pbrt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPBRT(tt.filename); err == nil {
				t.Errorf("Expected error for %q", tt.filename)
			}
		})
	}
}

func TestLoadPBRT_TempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.pbrt")
	content := "WorldBegin\nShape \"sphere\" \"float radius\" 0.3\nWorldEnd\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	scene, err := LoadPBRT(path)
	if err != nil {
		t.Fatalf("LoadPBRT() error = %v", err)
	}
	if len(scene.Shapes) != 1 {
		t.Errorf("Expected 1 shape, got %d", len(scene.Shapes))
	}
}
