// Package ioformat implements the text-based instance file format, the
// solution file reader/writer, and the plotting side-channel exporter —
// the module's external interfaces (§6).
//
// Errors:
//
//	ParseError  - malformed header, bad section, non-numeric token, or a
//	              dimension/demand mismatch.
//	IOError     - file missing, short read, or write failure.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cvrpsolve/engine/geo"
	"github.com/cvrpsolve/engine/instance"
	"github.com/cvrpsolve/engine/tvrp"
)

// ParseError reports a malformed instance file: a bad header line, an
// unrecognised section, a non-numeric token, or a dimension/demand
// mismatch.
type ParseError struct {
	Line   int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ioformat: parse error at line %d: %s", e.Line, e.Detail)
}

// IOError wraps an underlying I/O failure (missing file, short read,
// write failure) with the operation that triggered it.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("ioformat: %s: %v", e.Op, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

var truckCommentRe = regexp.MustCompile(`No of trucks:\s*(\d+)`)

type header struct {
	name         string
	dimension    int
	capacity     int
	edgeWeight   string
	vehicleCount int
}

// ParseInstance reads the line-oriented instance format described in
// the specification: header key/value lines, then
// NODE_COORD_SECTION / DEMAND_SECTION / DEPOT_SECTION (and, for TVRP,
// SKILL_SECTION / TECHNICIAN_SECTION), terminated by the next section
// header or EOF. 1-based node ids are converted to 0-based internal
// ids.
func ParseInstance(r io.Reader, registry *geo.Registry) (*instance.Instance, error) {
	h, coordLines, demandLines, _, _, err := scanSections(r)
	if err != nil {
		return nil, err
	}

	coords, demand, metric, err := buildGeometry(h, coordLines, demandLines, registry)
	if err != nil {
		return nil, err
	}

	fleet := instance.Fleet{VehicleCount: h.vehicleCount, Capacity: h.capacity}
	if fleet.VehicleCount < 1 {
		fleet.VehicleCount = 1
	}

	in, err := instance.New(coords, demand, fleet, instance.WithName(h.name), instance.WithMetric(metric))
	if err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}

	return in, nil
}

// ParseTVRPInstance reads the same line-oriented format as ParseInstance,
// additionally reading SKILL_SECTION (one required-skill bitmask per
// node) and TECHNICIAN_SECTION (one skill bitmask per technician,
// 1-based technician ids converted to 0-based). Neither section is
// required: a node or technician with no line gets an empty mask. The
// technician count is the larger of the header's vehicle count and the
// highest technician id seen, and at least one.
func ParseTVRPInstance(r io.Reader, registry *geo.Registry) (*tvrp.Instance, error) {
	h, coordLines, demandLines, skillLines, technicianLines, err := scanSections(r)
	if err != nil {
		return nil, err
	}

	coords, demand, metric, err := buildGeometry(h, coordLines, demandLines, registry)
	if err != nil {
		return nil, err
	}

	requiredSkills := make([]uint64, h.dimension)
	for id, mask := range skillLines {
		if id < 0 || id >= h.dimension {
			return nil, &ParseError{Detail: "SKILL_SECTION node id out of range"}
		}
		requiredSkills[id] = mask
	}

	technicianCount := h.vehicleCount
	for id := range technicianLines {
		if id+1 > technicianCount {
			technicianCount = id + 1
		}
	}
	if technicianCount < 1 {
		technicianCount = 1
	}
	technicianSkills := make([]uint64, technicianCount)
	for id, mask := range technicianLines {
		technicianSkills[id] = mask
	}

	fleet := instance.Fleet{VehicleCount: technicianCount, Capacity: h.capacity}

	in, err := tvrp.New(coords, demand, fleet, requiredSkills, technicianSkills, instance.WithName(h.name), instance.WithMetric(metric))
	if err != nil {
		return nil, &ParseError{Detail: err.Error()}
	}

	return in, nil
}

// buildGeometry validates the header's DIMENSION against the scanned
// coordinate/demand line counts, converts both into 0-based slices, and
// resolves the header's EDGE_WEIGHT_TYPE against registry (falling back
// to Euclidean when registry is nil or the header names no metric).
func buildGeometry(h header, coordLines map[int]geo.Coordinate, demandLines map[int]int, registry *geo.Registry) ([]geo.Coordinate, []int, geo.Metric, error) {
	if h.dimension <= 0 {
		return nil, nil, nil, &ParseError{Detail: "missing or non-positive DIMENSION"}
	}
	if len(coordLines) != h.dimension {
		return nil, nil, nil, &ParseError{Detail: "NODE_COORD_SECTION line count does not match DIMENSION"}
	}
	if len(demandLines) != h.dimension {
		return nil, nil, nil, &ParseError{Detail: "DEMAND_SECTION line count does not match DIMENSION"}
	}

	metric := geo.EuclideanMetric
	if registry != nil && h.edgeWeight != "" {
		m, err := registry.Lookup(h.edgeWeight)
		if err != nil {
			return nil, nil, nil, &ParseError{Detail: "unknown EDGE_WEIGHT_TYPE: " + h.edgeWeight}
		}
		metric = m
	}

	coords := make([]geo.Coordinate, h.dimension)
	for id, c := range coordLines {
		if id < 0 || id >= h.dimension {
			return nil, nil, nil, &ParseError{Detail: "NODE_COORD_SECTION node id out of range"}
		}
		coords[id] = c
	}
	demand := make([]int, h.dimension)
	for id, d := range demandLines {
		if id < 0 || id >= h.dimension {
			return nil, nil, nil, &ParseError{Detail: "DEMAND_SECTION node id out of range"}
		}
		demand[id] = d
	}

	return coords, demand, metric, nil
}

// scanSections performs the single pass over the file: header lines
// first, then whichever sections appear, converting ids from 1-based
// to 0-based as it goes.
func scanSections(r io.Reader) (h header, coords map[int]geo.Coordinate, demand map[int]int, skills map[int]uint64, technicians map[int]uint64, err error) {
	coords = make(map[int]geo.Coordinate)
	demand = make(map[int]int)
	skills = make(map[int]uint64)
	technicians = make(map[int]uint64)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	section := ""

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "EOF" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "NAME"):
			h.name = afterColon(line)
		case strings.HasPrefix(line, "DIMENSION"):
			h.dimension, err = parseIntField(afterColon(line), lineNo)
		case strings.HasPrefix(line, "CAPACITY"):
			h.capacity, err = parseIntField(afterColon(line), lineNo)
		case strings.HasPrefix(line, "EDGE_WEIGHT_TYPE"):
			h.edgeWeight = strings.TrimSpace(afterColon(line))
		case strings.HasPrefix(line, "COMMENT"):
			if m := truckCommentRe.FindStringSubmatch(line); m != nil {
				h.vehicleCount, _ = strconv.Atoi(m[1])
			}
		case isSectionHeader(line):
			section = line
		default:
			err = parseSectionLine(section, line, lineNo, coords, demand, skills, technicians)
		}
		if err != nil {
			return header{}, nil, nil, nil, nil, err
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return header{}, nil, nil, nil, nil, &IOError{Op: "read", Err: scanErr}
	}

	return h, coords, demand, skills, technicians, nil
}

func isSectionHeader(line string) bool {
	switch line {
	case "NODE_COORD_SECTION", "DEMAND_SECTION", "DEPOT_SECTION", "SKILL_SECTION", "TECHNICIAN_SECTION":
		return true
	default:
		return false
	}
}

func parseSectionLine(section, line string, lineNo int, coords map[int]geo.Coordinate, demand map[int]int, skills, technicians map[int]uint64) error {
	fields := strings.Fields(line)

	switch section {
	case "NODE_COORD_SECTION":
		if len(fields) != 3 {
			return &ParseError{Line: lineNo, Detail: "expected '<id> <x> <y>'"}
		}
		id, err := parseID(fields[0], lineNo)
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return &ParseError{Line: lineNo, Detail: "non-numeric x coordinate"}
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return &ParseError{Line: lineNo, Detail: "non-numeric y coordinate"}
		}
		coords[id] = geo.Coordinate{X: x, Y: y}

	case "DEMAND_SECTION":
		if len(fields) != 2 {
			return &ParseError{Line: lineNo, Detail: "expected '<id> <demand>'"}
		}
		id, err := parseID(fields[0], lineNo)
		if err != nil {
			return err
		}
		d, err := strconv.Atoi(fields[1])
		if err != nil || d < 0 {
			return &ParseError{Line: lineNo, Detail: "non-negative integer demand required"}
		}
		demand[id] = d

	case "SKILL_SECTION":
		id, mask, err := parseMaskLine(fields, lineNo)
		if err != nil {
			return err
		}
		skills[id] = mask

	case "TECHNICIAN_SECTION":
		id, mask, err := parseMaskLine(fields, lineNo)
		if err != nil {
			return err
		}
		technicians[id] = mask

	case "DEPOT_SECTION":
		// Ignored except as a section boundary.

	default:
		return &ParseError{Line: lineNo, Detail: "data line outside any section"}
	}

	return nil
}

func parseMaskLine(fields []string, lineNo int) (int, uint64, error) {
	if len(fields) < 1 {
		return 0, 0, &ParseError{Line: lineNo, Detail: "expected '<id> <bit>...'"}
	}
	id, err := parseID(fields[0], lineNo)
	if err != nil {
		return 0, 0, err
	}
	var mask uint64
	for bit, tok := range fields[1:] {
		v, convErr := strconv.Atoi(tok)
		if convErr != nil {
			return 0, 0, &ParseError{Line: lineNo, Detail: "non-numeric skill bit"}
		}
		if v != 0 {
			mask |= 1 << uint(bit)
		}
	}

	return id, mask, nil
}

func parseID(tok string, lineNo int) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil || v < 1 {
		return 0, &ParseError{Line: lineNo, Detail: "ids are 1-based positive integers"}
	}

	return v - 1, nil
}

func parseIntField(tok string, lineNo int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		return 0, &ParseError{Line: lineNo, Detail: "expected an integer"}
	}

	return v, nil
}

func afterColon(line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return ""
	}

	return strings.TrimSpace(line[idx+1:])
}
