package lxeos

import (
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/vario.go/pkg/operation"
	"github.com/robotalks/vario.go/pkg/task"
)

// Turn points a declaration can hold, start and finish included.
const (
	MinTurnPoints = 2
	MaxTurnPoints = 10
	// MaxWaypoints adds takeoff and landing.
	MaxWaypoints = MaxTurnPoints + 2
)

// Field widths of the declaration header, NUL included.
const (
	pilotNameLen     = 19
	gliderTypeLen    = 12
	registrationLen  = 8
	competitionIDLen = 4
	waypointNameLen  = 9
	classLen         = 9
)

// Waypoint roles in the header.
const (
	roleTurnPoint byte = 1
	roleLanding   byte = 2
	roleTakeoff   byte = 3
)

// Zone directions.
const (
	dirSymmetric byte = iota
	dirFixed
	dirNext
	dirPrevious
)

const (
	defaultKeyholeRadius = 500
	defaultSectorAngle   = 90
)

// Declare uploads decl: the header with all waypoints, one observation
// zone per turn point and the competition class. The first frame not
// acknowledged aborts the upload.
func (d *Device) Declare(env operation.Env, decl *task.Declaration) error {
	frames, err := DeclarationFrames(decl)
	if err != nil {
		return err
	}
	return d.session(func() error {
		env.SetProgressRange(uint(len(frames)))
		for n, frame := range frames {
			env.SetProgressPosition(uint(n))
			if err := d.exchange(env, frame); err != nil {
				return fmt.Errorf("declaration frame %d of %d: %w", n+1, len(frames), err)
			}
		}
		env.SetProgressPosition(uint(len(frames)))
		glog.Infof("lxeos: declared %d turnpoints", decl.Size())
		return nil
	})
}

// DeclarationFrames encodes decl into the frames sent by Declare.
func DeclarationFrames(decl *task.Declaration) ([][]byte, error) {
	if decl == nil {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDeclaration)
	}
	if n := decl.Size(); n < MinTurnPoints || n > MaxTurnPoints {
		return nil, fmt.Errorf("%w: %d turnpoints, want %d to %d",
			ErrInvalidDeclaration, n, MinTurnPoints, MaxTurnPoints)
	}
	frames := [][]byte{declarationHeader(decl)}
	for n := range decl.TurnPoints {
		frames = append(frames, obsZoneFrame(decl, n))
	}
	return append(frames, classFrame("")), nil
}

func declarationHeader(decl *task.Declaration) []byte {
	frame := newFrame(CmdDeclaration, 1+pilotNameLen+gliderTypeLen+registrationLen+
		competitionIDLen+MaxWaypoints*(9+waypointNameLen))
	frame = append(frame, byte(decl.Size()+2))
	frame = appendPadded(frame, decl.PilotName, pilotNameLen)
	frame = appendPadded(frame, decl.AircraftType, gliderTypeLen)
	frame = appendPadded(frame, decl.AircraftRegistration, registrationLen)
	frame = appendPadded(frame, decl.CompetitionID, competitionIDLen)

	frame = appendWaypoint(frame, roleTakeoff, decl.TakeoffPoint())
	for _, tp := range decl.TurnPoints {
		frame = appendWaypoint(frame, roleTurnPoint, tp.Waypoint)
	}
	frame = appendWaypoint(frame, roleLanding, decl.LandingPoint())
	for n := decl.Size() + 2; n < MaxWaypoints; n++ {
		frame = append(frame, make([]byte, 9+waypointNameLen)...)
	}
	return AppendCRC(frame)
}

func appendWaypoint(b []byte, role byte, wp task.Waypoint) []byte {
	b = append(b, role)
	b = appendInt32BE(b, CoordToDevice(wp.Longitude))
	b = appendInt32BE(b, CoordToDevice(wp.Latitude))
	return appendPadded(b, wp.Name, waypointNameLen)
}

// CoordToDevice converts degrees to thousandths of minutes, truncated
// toward zero.
func CoordToDevice(deg float64) int32 {
	return int32(deg * 60000)
}

// appendPadded appends s left justified in size-1 bytes padded with
// spaces, followed by NUL. Non-ASCII bytes become '?'.
func appendPadded(b []byte, s string, size int) []byte {
	for n := 0; n < size-1; n++ {
		c := byte(' ')
		if n < len(s) {
			c = s[n]
			if c < 0x20 || c >= 0x7f {
				c = '?'
			}
		}
		b = append(b, c)
	}
	return append(b, 0)
}

type zoneParams struct {
	direction byte
	autoNext  bool
	line      bool
	a1, a2    float64 // degrees
	a12       float64 // degrees
	r1, r2    float64
}

func zoneParamsOf(decl *task.Declaration, n int) zoneParams {
	tp := decl.TurnPoints[n]
	z := tp.Zone
	p := zoneParams{direction: dirSymmetric, autoNext: true}
	switch n {
	case 0:
		p.direction = dirNext
	case decl.Size() - 1:
		p.direction = dirPrevious
		p.autoNext = false
	}
	if z.Bisector != nil {
		p.direction, p.a12 = dirFixed, *z.Bisector
	}

	switch z.Shape {
	case task.Cylinder:
		p.a1, p.r1 = 180, z.Radius
	case task.Sector:
		angle := z.Angle
		if angle <= 0 {
			angle = defaultSectorAngle
		}
		p.a1, p.r1 = angle/2, z.Radius
	case task.Line:
		p.line, p.a1, p.r1 = true, 90, z.Radius
	case task.FAISector:
		p.a1, p.r1 = 45, z.Radius
	case task.Keyhole:
		inner := z.InnerRadius
		if inner <= 0 {
			inner = defaultKeyholeRadius
		}
		p.a1, p.r1 = 45, z.Radius
		p.a2, p.r2 = 180, inner
	}
	return p
}

func obsZoneFrame(decl *task.Declaration, n int) []byte {
	p := zoneParamsOf(decl, n)
	frame := newFrame(CmdObsZone, 26)
	frame = append(frame, byte(n), p.direction, boolByte(p.autoNext), boolByte(p.line))
	frame = appendFloat32LE(frame, radians(p.a1))
	frame = appendFloat32LE(frame, radians(p.a2))
	frame = appendFloat32LE(frame, radians(p.a12))
	frame = appendUint32LE(frame, uint32(math.Max(p.r1, 0)))
	frame = appendUint32LE(frame, uint32(math.Max(p.r2, 0)))
	frame = appendUint16LE(frame, uint16(int16(decl.TurnPoints[n].Elevation)))
	return AppendCRC(frame)
}

func classFrame(class string) []byte {
	return AppendCRC(appendPadded(newFrame(CmdCompetitionClass, classLen), class, classLen))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func appendFloat32LE(b []byte, v float64) []byte {
	return appendUint32LE(b, math.Float32bits(float32(v)))
}
