package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PBRTStatement represents a parsed PBRT statement
type PBRTStatement struct {
	Type       string               // Statement type (Material, Shape, LightSource, etc.)
	Subtype    string               // Subtype (phong, sphere, distant, etc.)
	Parameters map[string]PBRTParam // Named parameters
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, rgb, point3, etc.)
	Values []string // Parameter values as strings
}

// ShapeInstance is a shape with the graphics state that was active when it was declared
type ShapeInstance struct {
	Shape       PBRTStatement
	Material    *PBRTStatement // nil when no material was declared
	Translation core.Vec3      // Accumulated Translate offsets
}

// PBRTScene contains all parsed PBRT scene data
type PBRTScene struct {
	// Pre-WorldBegin statements
	LookAt   *core.Vec3 // Eye position
	LookAtTo *core.Vec3 // Look at target
	LookAtUp *core.Vec3 // Up vector

	// World content (inside WorldBegin/WorldEnd)
	Shapes       []ShapeInstance
	LightSources []PBRTStatement
	Orbit        *PBRTStatement
}

// GraphicsState is the state saved and restored by AttributeBegin/AttributeEnd
type GraphicsState struct {
	Material    *PBRTStatement
	Translation core.Vec3
}

// PBRTParser encapsulates the state and logic for parsing PBRT files
type PBRTParser struct {
	scene          *PBRTScene
	state          GraphicsState
	stateStack     []GraphicsState
	inWorld        bool
	lineNumber     int
	statementLines []string
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parser.lineNumber++
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", parser.lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	// Process any remaining accumulated statements
	if err := parser.finalize(); err != nil {
		return nil, err
	}

	return parser.scene, nil
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	// Validate file path for security
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	return ParsePBRT(file)
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{
		scene: &PBRTScene{},
	}
}

// processAccumulatedStatement processes any accumulated statement lines and clears them
func (p *PBRTParser) processAccumulatedStatement(context string) error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return fmt.Errorf("error parsing statement %s '%s': %w", context, fullStatement, err)
	}
	return p.routeStatement(stmt)
}

// processLine processes a single line of PBRT input
func (p *PBRTParser) processLine(line string) error {
	line = strings.TrimSpace(line)

	// Skip empty lines and comments
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	// Handle block directives
	switch line {
	case "WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd":
		if err := p.processAccumulatedStatement("before " + line); err != nil {
			return err
		}
		return p.processDirective(line)
	}

	// Check if this line starts a new statement or continues the previous one
	if isStatementStart(line) {
		if err := p.processAccumulatedStatement(""); err != nil {
			return err
		}
		p.statementLines = []string{line}
		return nil
	}

	if len(p.statementLines) == 0 {
		return fmt.Errorf("unexpected continuation line: %s", line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

// processDirective handles the block structure of the file
func (p *PBRTParser) processDirective(directive string) error {
	switch directive {
	case "WorldBegin":
		p.inWorld = true
	case "WorldEnd":
		if len(p.stateStack) > 0 {
			return fmt.Errorf("WorldEnd inside an attribute block")
		}
		p.inWorld = false
	case "AttributeBegin":
		if !p.inWorld {
			return fmt.Errorf("AttributeBegin before WorldBegin")
		}
		p.stateStack = append(p.stateStack, p.state)
	case "AttributeEnd":
		if len(p.stateStack) == 0 {
			return fmt.Errorf("AttributeEnd without AttributeBegin")
		}
		p.state = p.stateStack[len(p.stateStack)-1]
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
	}
	return nil
}

// finalize processes any remaining accumulated statements
func (p *PBRTParser) finalize() error {
	if err := p.processAccumulatedStatement("at end of file"); err != nil {
		return err
	}
	if len(p.stateStack) > 0 {
		return fmt.Errorf("%d unterminated AttributeBegin block(s)", len(p.stateStack))
	}
	return nil
}

// routeStatement applies a parsed statement to the graphics state or the scene
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) error {
	if !p.inWorld {
		switch stmt.Type {
		case "LookAt":
			if err := parseLookAt(stmt, p.scene); err != nil {
				return fmt.Errorf("error parsing LookAt: %w", err)
			}
		case "Camera", "Film", "Sampler", "Integrator":
			// Image size and projection are fixed by the renderer
		default:
			return fmt.Errorf("%s must appear between WorldBegin and WorldEnd", stmt.Type)
		}
		return nil
	}

	switch stmt.Type {
	case "Material":
		p.state.Material = stmt
	case "Translate":
		offset, err := parseFloats(stmt.Parameters["values"].Values, 3)
		if err != nil {
			return fmt.Errorf("error parsing Translate: %w", err)
		}
		p.state.Translation = p.state.Translation.Add(core.NewVec3(offset[0], offset[1], offset[2]))
	case "Shape":
		p.scene.Shapes = append(p.scene.Shapes, ShapeInstance{
			Shape:       *stmt,
			Material:    p.state.Material,
			Translation: p.state.Translation,
		})
	case "LightSource":
		p.scene.LightSources = append(p.scene.LightSources, *stmt)
	case "Orbit":
		p.scene.Orbit = stmt
	case "Rotate", "Scale", "Transform":
		return fmt.Errorf("unsupported transform %s: spheres only support Translate", stmt.Type)
	default:
		return fmt.Errorf("unsupported statement %s", stmt.Type)
	}
	return nil
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	// Check for empty filename
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Clean the path to resolve . and .. components
	cleanPath := filepath.Clean(filename)

	// Only allow files in a scenes/ directory or the temp directory (for tests)
	if !strings.HasPrefix(cleanPath, "scenes"+string(filepath.Separator)) &&
		!strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.Contains(cleanPath, string(filepath.Separator)+"scenes"+string(filepath.Separator)) {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	// Check file extension (only allow .pbrt files)
	if !IsSceneFile(cleanPath) {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	// Check for extremely long paths that could cause issues
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}

// IsSceneFile reports whether name refers to a PBRT scene file rather than a built-in scene
func IsSceneFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pbrt")
}

// parseLookAt parses a LookAt statement into scene camera vectors
func parseLookAt(stmt *PBRTStatement, scene *PBRTScene) error {
	// LookAt should have 9 values: eyex eyey eyez atx aty atz upx upy upz
	values, err := parseFloats(stmt.Parameters["values"].Values, 9)
	if err != nil {
		return err
	}

	scene.LookAt = &core.Vec3{X: values[0], Y: values[1], Z: values[2]}
	scene.LookAtTo = &core.Vec3{X: values[3], Y: values[4], Z: values[5]}
	scene.LookAtUp = &core.Vec3{X: values[6], Y: values[7], Z: values[8]}
	return nil
}

// parseFloats parses exactly n floats
func parseFloats(values []string, n int) ([]float64, error) {
	if len(values) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(values))
	}
	result := make([]float64, n)
	for i, value := range values {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s': %w", value, err)
		}
		result[i] = parsed
	}
	return result, nil
}

// tokenizePBRT tokenizes a PBRT line respecting quoted strings and brackets
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, char := range line {
		switch {
		case char == '"' && !inBrackets:
			current.WriteRune(char)
			if inQuotes {
				// End of quoted string
				flush()
			}
			inQuotes = !inQuotes
		case char == '[' && !inQuotes:
			flush()
			current.WriteRune(char)
			inBrackets = true
		case char == ']' && !inQuotes && inBrackets:
			current.WriteRune(char)
			flush()
			inBrackets = false
		case (char == ' ' || char == '\t') && !inQuotes && !inBrackets:
			flush()
		default:
			current.WriteRune(char)
		}
	}
	flush()

	return tokens
}

// parseStatement parses a single PBRT statement line
func parseStatement(line string) (*PBRTStatement, error) {
	// LookAt and Translate take bare numbers
	for _, bare := range []string{"LookAt", "Translate", "Rotate", "Scale", "Transform"} {
		if strings.HasPrefix(line, bare) {
			return &PBRTStatement{
				Type: bare,
				Parameters: map[string]PBRTParam{
					"values": {Type: "float", Values: strings.Fields(strings.Trim(line[len(bare):], " \t[]"))},
				},
			}, nil
		}
	}

	// Parse regular statements: Type "subtype" "param type" value
	parts := tokenizePBRT(line)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &PBRTStatement{
		Type:       parts[0],
		Parameters: make(map[string]PBRTParam),
	}

	// Extract subtype (quoted string after type)
	if strings.HasPrefix(parts[1], "\"") && strings.HasSuffix(parts[1], "\"") {
		stmt.Subtype = strings.Trim(parts[1], "\"")
		parts = parts[2:]
	} else {
		parts = parts[1:]
	}

	// Parse parameters
	for i := 0; i < len(parts); i++ {
		if !strings.HasPrefix(parts[i], "\"") {
			return nil, fmt.Errorf("unexpected value %s", parts[i])
		}

		// Find parameter name and type
		paramParts := strings.Fields(strings.Trim(parts[i], "\""))
		if len(paramParts) != 2 {
			return nil, fmt.Errorf("invalid parameter declaration %s", parts[i])
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("parameter %s has no value", paramParts[1])
		}
		i++

		// Array values are tokenized as a single bracketed token
		values := strings.Fields(strings.Trim(parts[i], "[] "))
		stmt.Parameters[paramParts[1]] = PBRTParam{
			Type:   paramParts[0],
			Values: values,
		}
	}

	return stmt, nil
}

// GetFloatParam extracts a float parameter from a PBRT statement.
// A missing parameter reports false with no error; a malformed one reports an error.
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return 0, false, nil
	}
	if len(param.Values) != 1 {
		return 0, true, fmt.Errorf("parameter %s: expected 1 value, got %d", name, len(param.Values))
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, true, fmt.Errorf("parameter %s: invalid float %q", name, param.Values[0])
	}
	return val, true, nil
}

// GetIntParam extracts an integer parameter from a PBRT statement
func (stmt *PBRTStatement) GetIntParam(name string) (int, bool, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return 0, false, nil
	}
	if len(param.Values) != 1 {
		return 0, true, fmt.Errorf("parameter %s: expected 1 value, got %d", name, len(param.Values))
	}
	val, err := strconv.Atoi(param.Values[0])
	if err != nil {
		return 0, true, fmt.Errorf("parameter %s: invalid integer %q", name, param.Values[0])
	}
	return val, true, nil
}

// GetVec3Param extracts a three-component parameter (rgb, point3, vector3) from a PBRT statement
func (stmt *PBRTStatement) GetVec3Param(name string) (core.Vec3, bool, error) {
	param, exists := stmt.Parameters[name]
	if !exists {
		return core.Vec3{}, false, nil
	}
	values, err := parseFloats(param.Values, 3)
	if err != nil {
		return core.Vec3{}, true, fmt.Errorf("parameter %s: %w", name, err)
	}
	return core.NewVec3(values[0], values[1], values[2]), true, nil
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "Shape", "LightSource", "Orbit",
		"Translate", "Rotate", "Scale", "Transform",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || strings.HasPrefix(line, stmt+"\t") || line == stmt {
			return true
		}
	}
	return false
}
