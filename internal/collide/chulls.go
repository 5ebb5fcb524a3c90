package collide

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/colmak/collsim/internal/geom"
)

// AddConvexHullsFromFile reads a '.chulls' ASCII stream and registers
// one convex hull per point cluster. Each non-blank line is either the
// literal "hull", terminating the current cluster, or three
// whitespace-separated coordinates "x y z". A trailing cluster left
// open at end of stream is registered as well. Engines never need to
// override this: it reduces to AddConvexHull per cluster.
func (m *Model) AddConvexHullsFromFile(r io.Reader, pos geom.Vec3, rot geom.Mat33) error {
	scanner := bufio.NewScanner(r)

	var points []geom.Vec3
	line := 0

	flush := func() bool {
		if len(points) == 0 {
			return true
		}
		ok := m.AddConvexHull(points, pos, rot)
		points = points[:0]
		return ok
	}

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "hull" {
			if !flush() {
				return fmt.Errorf("collide: engine %s rejected convex hull ending at line %d", m.engine.Name(), line)
			}
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return fmt.Errorf("%w: line %d: want 3 coordinates, got %d", ErrBadHullFile, line, len(fields))
		}
		var p geom.Vec3
		for i, dst := range []*float64{&p.X, &p.Y, &p.Z} {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return fmt.Errorf("%w: line %d: %v", ErrBadHullFile, line, err)
			}
			*dst = v
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if !flush() {
		return fmt.Errorf("collide: engine %s rejected trailing convex hull", m.engine.Name())
	}
	return nil
}
