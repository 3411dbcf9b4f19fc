package swipe

// This file is C2: the SIMD score vector. Go has no portable way to
// emit SSE/AVX intrinsics without cgo or hand-written assembly per
// architecture (neither of which the corpus's pure-Go packages do either
// -- see DESIGN.md), so the lane-parallel backend is expressed as a
// struct-of-lanes value type with saturating-arithmetic methods, and the
// scalar backend as a degenerate one-lane instance of the same
// interface. This keeps the §4.2 contract -- broadcast, saturating
// add/sub, max, compare, store -- identical across both, which is what
// lets dp.go (C5) be written once against the ScoreVector interface and
// instantiated twice, exactly as §9's "Template polymorphism -> tagged
// dispatch" design note prescribes.

// ScoreVector is implemented by Vector16 (8-lane SIMD backend) and
// Vector32 (1-lane scalar backend). It is a self-referential generic
// constraint (V's own methods return V) rather than a plain interface,
// so that dp.go's kernel can be written once as a function generic over
// V and instantiated per backend without boxing every lane op through an
// interface value -- the closest idiomatic-Go equivalent of the C++
// kernel being instantiated once per `_sv` template parameter.
type ScoreVector[V any] interface {
	Add(V) V
	Sub(V) V
	Max(V) V
	Store(dst []int)
}

// Channels16 is the lane count of the int16 SIMD backend.
const Channels16 = 8

// Channels32 is the lane count of the int32 scalar fallback: exactly one,
// since the overflow retry path processes one target at a time.
const Channels32 = 1

// int16 saturating bounds.
const (
	minInt16 = -1 << 15
	maxInt16 = 1<<15 - 1
)

// ZeroScore16 is the bias added to every raw score so that saturating
// subtraction clamps at the representable floor instead of wrapping,
// matching ScoreTraits<score_vector<int16_t>>::zero_score in DIAMOND.
// The bias leaves 16384 of room below zero for negative intermediate
// values; real scores up to MaxScore16 (16383) fit above it.
const ZeroScore16 = 1 << 14

// MaxScore16 is the overflow threshold: a lane whose running best reaches
// this value is flagged Overflow and retried on the int32 path (§4.2).
const MaxScore16 = maxInt16 - ZeroScore16

// Vector16 is an 8-lane saturating int16 score vector.
type Vector16 [Channels16]int16

func saturateAdd16(a, b int) int16 {
	s := a + b
	if s > maxInt16 {
		return maxInt16
	}
	if s < minInt16 {
		return minInt16
	}
	return int16(s)
}

// Broadcast16 fills every lane with the same biased scalar.
func Broadcast16(v int16) Vector16 {
	var r Vector16
	for i := range r {
		r[i] = v
	}
	return r
}

// Add returns the lane-wise saturating sum.
func (v Vector16) Add(o Vector16) Vector16 {
	var r Vector16
	for i := range r {
		r[i] = saturateAdd16(int(v[i]), int(o[i]))
	}
	return r
}

// Sub returns the lane-wise saturating difference.
func (v Vector16) Sub(o Vector16) Vector16 {
	var r Vector16
	for i := range r {
		r[i] = saturateAdd16(int(v[i]), -int(o[i]))
	}
	return r
}

// Max returns the lane-wise maximum.
func (v Vector16) Max(o Vector16) Vector16 {
	var r Vector16
	for i := range r {
		if o[i] > v[i] {
			r[i] = o[i]
		} else {
			r[i] = v[i]
		}
	}
	return r
}

// Store writes every lane's externalised (unbiased) score into dst.
func (v Vector16) Store(dst []int) {
	for i := range v {
		dst[i] = int(v[i]) - ZeroScore16
	}
}

// Vector16FromInts builds an unbiased (raw) vector with one value per
// lane, used for per-lane substitution scores and gap-penalty deltas --
// quantities added to or subtracted from an already-biased score rather
// than compared against it directly.
func Vector16FromInts(values []int) Vector16 {
	var r Vector16
	for i := range r {
		if i < len(values) {
			r[i] = int16(values[i])
		}
	}
	return r
}

// Vector32 is the 1-lane int32 scalar fallback used for overflow retries.
type Vector32 struct{ v int32 }

// ZeroScore32 is always 0: int32 has enough range that no bias is
// needed for any alignment this engine will ever see in practice.
const ZeroScore32 = 0

// MaxScore32 is effectively unreachable; the overflow policy never
// re-triggers on the int32 path.
const MaxScore32 = 1<<31 - 1

func saturateAdd32(a, b int64) int32 {
	s := a + b
	const maxInt32 = 1<<31 - 1
	const minInt32 = -1 << 31
	if s > maxInt32 {
		return maxInt32
	}
	if s < minInt32 {
		return minInt32
	}
	return int32(s)
}

func Broadcast32(v int32) Vector32 { return Vector32{v} }

func (v Vector32) Add(o Vector32) Vector32 {
	return Vector32{saturateAdd32(int64(v.v), int64(o.v))}
}

func (v Vector32) Sub(o Vector32) Vector32 {
	return Vector32{saturateAdd32(int64(v.v), -int64(o.v))}
}

func (v Vector32) Max(o Vector32) Vector32 {
	if o.v > v.v {
		return o
	}
	return v
}

func (v Vector32) Store(dst []int) {
	dst[0] = int(v.v) - ZeroScore32
}

// Vector32FromInts builds a 1-lane raw vector from the first value.
func Vector32FromInts(values []int) Vector32 {
	if len(values) == 0 {
		return Vector32{}
	}
	return Vector32{int32(values[0])}
}
