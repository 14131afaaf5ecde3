package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Treecase/Raytracer/pkg/core"
)

// blockTerminator ends a definition in a world file
const blockTerminator = ";"

// ParseWorld parses the plain text world format:
//
//	# comment
//	Quad            (optional kind line, Quad or PointLight)
//	-1 -1 0         (points, three for a quad, one for a light)
//	1 -1 0
//	-1 1 0
//	c8 64 32        (optional colour as hex pairs, default white)
//	;
//
// Blank lines and lines starting with '#' are ignored. Blocks without a
// kind line are quads.
func ParseWorld(reader io.Reader) ([]Descriptor, error) {
	var descriptors []Descriptor
	var block []string
	blockStart := 0
	lineNum := 0

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line != blockTerminator {
			if len(block) == 0 {
				blockStart = lineNum
			}
			block = append(block, line)
			continue
		}

		if len(block) == 0 {
			blockStart = lineNum
		}
		desc, err := parseBlock(block)
		if err != nil {
			return nil, fmt.Errorf("definition %d at line %d: %w", len(descriptors)+1, blockStart, err)
		}
		desc.Line = blockStart
		descriptors = append(descriptors, desc)
		block = nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %v", err)
	}
	if len(block) > 0 {
		return nil, fmt.Errorf("definition %d at line %d: missing terminating %q", len(descriptors)+1, blockStart, blockTerminator)
	}

	return descriptors, nil
}

// parseBlock turns the lines of one definition into a Descriptor
func parseBlock(lines []string) (Descriptor, error) {
	desc := Descriptor{Kind: KindQuad}
	if len(lines) == 0 {
		return desc, fmt.Errorf("empty definition")
	}

	if kind, ok := kindLine(lines[0]); ok {
		desc.Kind = kind
		lines = lines[1:]
	}

	numPoints := 3
	if desc.Kind == KindPointLight {
		numPoints = 1
	}
	if len(lines) < numPoints {
		return desc, fmt.Errorf("%s needs %d points, got %d lines", desc.Kind, numPoints, len(lines))
	}
	if len(lines) > numPoints+1 {
		return desc, fmt.Errorf("unexpected line %q after colour", lines[numPoints+1])
	}

	for _, line := range lines[:numPoints] {
		point, err := parsePoint(line)
		if err != nil {
			return desc, err
		}
		desc.Points = append(desc.Points, point)
	}

	if len(lines) == numPoints+1 {
		hex := lines[numPoints]
		if _, err := core.ParseHexColor(hex); err != nil {
			return desc, err
		}
		desc.Colour = core.ColorSpec{Hex: hex}
	}

	return desc, nil
}

// kindLine reports whether line names an entity kind rather than a point.
// Any single non-numeric word counts so unknown kinds reach the registry.
func kindLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return "", false
	}
	if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
		return "", false
	}
	return fields[0], true
}

// parsePoint parses three whitespace-separated floats
func parsePoint(line string) (core.Vec3, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return core.Vec3{}, fmt.Errorf("point %q: expected 3 coordinates, got %d", line, len(fields))
	}

	var coords [3]float64
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("point %q: invalid coordinate %q", line, field)
		}
		coords[i] = value
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}
