// Package task describes the task a pilot declares before the flight.
package task

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Waypoint is a named location, coordinates in degrees, elevation in m.
type Waypoint struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lon"`
	Elevation float64 `yaml:"elevation"`
}

// ZoneShape is the geometry of an observation zone.
type ZoneShape int

// Zone shapes.
const (
	Cylinder ZoneShape = iota
	Sector
	Line
	FAISector
	Keyhole
)

var zoneShapeNames = map[ZoneShape]string{
	Cylinder:  "cylinder",
	Sector:    "sector",
	Line:      "line",
	FAISector: "fai-sector",
	Keyhole:   "keyhole",
}

func (s ZoneShape) String() string {
	if name, ok := zoneShapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ZoneShape(%d)", int(s))
}

// ParseZoneShape parses the name of a shape.
func ParseZoneShape(name string) (ZoneShape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for shape, n := range zoneShapeNames {
		if n == name {
			return shape, nil
		}
	}
	return Cylinder, fmt.Errorf("unknown zone shape %q", name)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ZoneShape) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	shape, err := ParseZoneShape(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = shape
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s ZoneShape) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ObservationZone is the area to be reached around a turn point.
type ObservationZone struct {
	Shape ZoneShape `yaml:"shape"`
	// Radius in m, the sector radius of a keyhole.
	Radius float64 `yaml:"radius"`
	// InnerRadius of a keyhole cylinder in m.
	InnerRadius float64 `yaml:"inner_radius,omitempty"`
	// Angle is the full opening of a sector in degrees.
	Angle float64 `yaml:"angle,omitempty"`
	// Bisector fixes the direction of the zone, degrees true. When unset
	// the direction follows the task legs.
	Bisector *float64 `yaml:"bisector,omitempty"`
}

// TurnPoint is a waypoint with its observation zone.
type TurnPoint struct {
	Waypoint `yaml:",inline"`
	Zone     ObservationZone `yaml:"zone"`
}

// Declaration is the task and the pilot/glider details.
// TurnPoints run from start to finish.
type Declaration struct {
	PilotName            string      `yaml:"pilot"`
	AircraftType         string      `yaml:"aircraft_type"`
	AircraftRegistration string      `yaml:"registration"`
	CompetitionID        string      `yaml:"competition_id"`
	Takeoff              *Waypoint   `yaml:"takeoff,omitempty"`
	Landing              *Waypoint   `yaml:"landing,omitempty"`
	TurnPoints           []TurnPoint `yaml:"turnpoints"`
}

// Size returns the number of turn points including start and finish.
func (d *Declaration) Size() int {
	return len(d.TurnPoints)
}

// TakeoffPoint returns the takeoff, the start point if not declared.
func (d *Declaration) TakeoffPoint() Waypoint {
	if d.Takeoff != nil || len(d.TurnPoints) == 0 {
		return derefWaypoint(d.Takeoff)
	}
	return d.TurnPoints[0].Waypoint
}

// LandingPoint returns the landing, the finish point if not declared.
func (d *Declaration) LandingPoint() Waypoint {
	if d.Landing != nil || len(d.TurnPoints) == 0 {
		return derefWaypoint(d.Landing)
	}
	return d.TurnPoints[len(d.TurnPoints)-1].Waypoint
}

func derefWaypoint(wp *Waypoint) Waypoint {
	if wp == nil {
		return Waypoint{}
	}
	return *wp
}
