package tracking

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Default mean-shift termination criteria.
const (
	DefaultMaxIter = 10
	DefaultEpsilon = 1.0
)

// Criteria stops mean-shift after MaxIter iterations or once the window
// moves by less than Epsilon pixels, whichever comes first.
type Criteria struct {
	MaxIter int
	Epsilon float64
}

// DefaultCriteria returns 10 iterations / 1 pixel.
func DefaultCriteria() Criteria {
	return Criteria{MaxIter: DefaultMaxIter, Epsilon: DefaultEpsilon}
}

// MeanShift moves window towards the local mode of prob.
//
// Each iteration takes the zeroth and first moments of prob inside the
// window, recenters the window on the centroid and clamps it to the image.
// A window without mass stops the search. The result always lies inside
// prob's bounds. It returns the final window and the number of iterations
// that moved it by at least Epsilon, so a centered or empty window reports 0.
func MeanShift(prob *image.Gray, window image.Rectangle, crit Criteria) (image.Rectangle, int) {
	bounds := prob.Bounds()
	cur := clampRect(window.Canon(), bounds)
	if cur.Empty() {
		return cur, 0
	}

	maxIter := crit.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	eps2 := crit.Epsilon * crit.Epsilon

	w, h := cur.Dx(), cur.Dy()
	iter := 0
	for iter < maxIter {
		m00, m10, m01 := moments(prob, cur)
		if m00 == 0 {
			break
		}

		dx := int(math.RoundToEven(m10/m00 - float64(w)*0.5))
		dy := int(math.RoundToEven(m01/m00 - float64(h)*0.5))

		nx := clampInt(cur.Min.X+dx, bounds.Min.X, bounds.Max.X-w)
		ny := clampInt(cur.Min.Y+dy, bounds.Min.Y, bounds.Max.Y-h)
		dx, dy = nx-cur.Min.X, ny-cur.Min.Y
		cur = image.Rect(nx, ny, nx+w, ny+h)

		if float64(dx*dx+dy*dy) < eps2 {
			break
		}
		iter++
	}

	return cur, iter
}

// moments returns m00, m10 and m01 of prob over r, with coordinates
// relative to r.Min.
func moments(prob *image.Gray, r image.Rectangle) (m00, m10, m01 float64) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := prob.Pix[prob.PixOffset(r.Min.X, y):prob.PixOffset(r.Max.X, y)]
		ly := float64(y - r.Min.Y)
		for lx, p := range row {
			if p == 0 {
				continue
			}
			v := float64(p)
			m00 += v
			m10 += float64(lx) * v
			m01 += ly * v
		}
	}
	return m00, m10, m01
}

// clampRect shifts r inside bounds, shrinking it only when it is larger
// than bounds.
func clampRect(r, bounds image.Rectangle) image.Rectangle {
	w := min(r.Dx(), bounds.Dx())
	h := min(r.Dy(), bounds.Dy())
	x := clampInt(r.Min.X, bounds.Min.X, bounds.Max.X-w)
	y := clampInt(r.Min.Y, bounds.Min.Y, bounds.Max.Y-h)
	return image.Rect(x, y, x+w, y+h)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GrayImage copies an 8-bit single channel Mat into an image.Gray.
func GrayImage(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, errors.New("empty probability map")
	}
	if m.Type() != gocv.MatTypeCV8UC1 {
		return nil, errors.Errorf("probability map must be CV_8UC1, got %v", m.Type())
	}

	data := m.ToBytes()
	if len(data) != m.Rows()*m.Cols() {
		return nil, errors.Errorf("probability map is not continuous (%d bytes for %dx%d)", len(data), m.Cols(), m.Rows())
	}

	img := &image.Gray{
		Pix:    data,
		Stride: m.Cols(),
		Rect:   image.Rect(0, 0, m.Cols(), m.Rows()),
	}
	return img, nil
}
