package extrema

import (
	"posbound/internal/freeze"
	"posbound/internal/rational"
)

// walkTickLimit and walkEntryLimit keep count*entry sums of the integer
// path inside int64.
const (
	walkTickLimit  = 1 << 20
	walkEntryLimit = 1 << 40
)

// walker evaluates one timeline of one frame table at a rate interval.
//
// The integer path keeps positions as numerators over fixedDenom and frame
// indices as numerators over the rate denominator. Inputs it cannot hold
// without overflow go through the exact path instead.
type walker struct {
	frames           []rational.Num
	tl               freeze.Timeline
	spawnLo, spawnHi int64

	// frame i scaled by (size+1)/size is num[i]/den[i]; nil when any frame
	// does not fit.
	num, den []int64
	weighted int64
	fits     bool
}

func newWalker(frames []rational.Num, tl freeze.Timeline, spawnLo, spawnHi int64) *walker {
	w := &walker{frames: frames, tl: tl, spawnLo: spawnLo, spawnHi: spawnHi, weighted: tl.Weighted()}

	var ticks int64
	for _, s := range tl.Segments {
		ticks += s.Ticks
	}
	_, okLo := mulInt64(spawnLo, fixedDenom)
	_, okHi := mulInt64(spawnHi, fixedDenom)
	if ticks >= walkTickLimit || w.weighted >= walkTickLimit || !okLo || !okHi ||
		!safeInt(spawnLo*fixedDenom) || !safeInt(spawnHi*fixedDenom) {
		return w
	}

	size := int64(len(frames))
	w.num = make([]int64, size)
	w.den = make([]int64, size)
	for i, f := range frames {
		fn, fd, ok := f.Int64Parts()
		if !ok {
			w.num, w.den = nil, nil
			return w
		}
		p, okP := mulInt64(fn, size+1)
		q, okQ := mulInt64(fd, size)
		if !okP || !okQ || !safeInt(p) || !safeInt(q) {
			w.num, w.den = nil, nil
			return w
		}
		w.num[i], w.den[i] = p, q
	}
	w.fits = true
	return w
}

// eval returns the candidate bounds for phase rates in [l, r).
func (w *walker) eval(l, r rational.Num) bounds {
	if w.fits {
		if b, ok := w.fast(l, r); ok {
			return b
		}
	}
	return w.exact(l, r)
}

func (w *walker) fast(l, r rational.Num) (bounds, bool) {
	a, b, okL := l.Int64Parts()
	c, d, okR := r.Int64Parts()
	if !okL || !okR || a < 0 || !safeInt(b) {
		return bounds{}, false
	}
	if end, ok := mulInt64(a, w.weighted+2); !ok || !safeInt(end) {
		return bounds{}, false
	}
	normL, ok1 := w.table(a, b, 2*fixedDenom)
	normR, ok2 := w.table(c, d, 2*fixedDenom)
	chillL, ok3 := w.table(a, b, fixedDenom)
	chillR, ok4 := w.table(c, d, fixedDenom)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return bounds{}, false
	}

	lo, hi := w.spawnLo*fixedDenom, w.spawnHi*fixedDenom
	phase := 2 * a
	for _, s := range w.tl.Segments {
		if s.Ticks <= 0 {
			continue
		}
		loTab, hiTab, step := normR, normL, 2*a
		if s.Slowed {
			loTab, hiTab, step = chillR, chillL, a
		}
		shiftCounts(s.Ticks, phase, step, b, func(idx, count int64) {
			lo -= count * atInt(loTab, idx)
			hi -= count * atInt(hiTab, idx)
		})
		phase += step * s.Ticks
	}
	return bounds{lo: rational.New(lo, fixedDenom), hi: rational.New(hi, fixedDenom)}, true
}

// table is shiftTable at rate a/b, as numerators over fixedDenom.
func (w *walker) table(a, b, unit int64) ([]int64, bool) {
	out := make([]int64, len(w.num))
	for i := range w.num {
		p, ok1 := mulInt64(w.num[i], a)
		p, ok2 := mulInt64(p, unit)
		q, ok3 := mulInt64(w.den[i], b)
		if !ok1 || !ok2 || !ok3 || !safeInt(p) || q <= 0 || !safeInt(q) {
			return nil, false
		}
		v := roundDiv(p, q)
		if v <= -walkEntryLimit || v >= walkEntryLimit {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (w *walker) exact(l, r rational.Num) bounds {
	size := int64(len(w.frames))
	disScale := rational.New(size+1, size)
	normL := shiftTable(w.frames, disScale.Mul(l), 2*fixedDenom)
	normR := shiftTable(w.frames, disScale.Mul(r), 2*fixedDenom)
	chillL := shiftTable(w.frames, disScale.Mul(l), fixedDenom)
	chillR := shiftTable(w.frames, disScale.Mul(r), fixedDenom)

	lo, hi := rational.FromInt(w.spawnLo), rational.FromInt(w.spawnHi)
	phase := l.MulInt(2)
	for _, s := range w.tl.Segments {
		if s.Slowed {
			lo = lo.Sub(ShiftSum(chillR, s.Ticks, l, phase))
			hi = hi.Sub(ShiftSum(chillL, s.Ticks, l, phase))
			phase = phase.Add(l.MulInt(s.Ticks))
			continue
		}
		step := l.MulInt(2)
		lo = lo.Sub(ShiftSum(normR, s.Ticks, step, phase))
		hi = hi.Sub(ShiftSum(normL, s.Ticks, step, phase))
		phase = phase.Add(step.MulInt(s.Ticks))
	}
	return bounds{lo: lo, hi: hi}
}
