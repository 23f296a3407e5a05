package emotion

// Vector holds the seven intensity channels produced by the classifier.
// Values are conventionally in [0,100] but are not required to sum to 100.
type Vector struct {
	Happy     float64 `json:"happy"`
	Sad       float64 `json:"sad"`
	Angry     float64 `json:"angry"`
	Surprised float64 `json:"surprised"`
	Fearful   float64 `json:"fearful"`
	Disgusted float64 `json:"disgusted"`
	Neutral   float64 `json:"neutral"`
}

// Channel is one named intensity of a Vector.
type Channel struct {
	Name  string
	Value float64
}

// Channels returns the vector's channels in canonical order.
// The order is a behavioral contract: Dominant breaks ties by it.
func (v Vector) Channels() []Channel {
	return []Channel{
		{"happy", v.Happy},
		{"sad", v.Sad},
		{"angry", v.Angry},
		{"surprised", v.Surprised},
		{"fearful", v.Fearful},
		{"disgusted", v.Disgusted},
		{"neutral", v.Neutral},
	}
}

// IsZero reports whether every channel is zero, i.e. the vector is
// absent or the classifier produced nothing usable.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Neutral is the default vector substituted for absent input.
func Neutral() Vector {
	return Vector{Neutral: 100}
}

// Add returns the channel-wise sum of v and o.
func (v Vector) Add(o Vector) Vector {
	return Vector{
		Happy:     v.Happy + o.Happy,
		Sad:       v.Sad + o.Sad,
		Angry:     v.Angry + o.Angry,
		Surprised: v.Surprised + o.Surprised,
		Fearful:   v.Fearful + o.Fearful,
		Disgusted: v.Disgusted + o.Disgusted,
		Neutral:   v.Neutral + o.Neutral,
	}
}

// Scale returns v with every channel multiplied by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{
		Happy:     v.Happy * f,
		Sad:       v.Sad * f,
		Angry:     v.Angry * f,
		Surprised: v.Surprised * f,
		Fearful:   v.Fearful * f,
		Disgusted: v.Disgusted * f,
		Neutral:   v.Neutral * f,
	}
}

// Dominant resolves the highest-intensity channel of v. Channels are
// scanned in canonical order and the running best is replaced only on a
// strictly greater value, so the earlier channel wins exact ties.
// A zero vector is treated as fully neutral; Dominant never fails.
func Dominant(v Vector) (string, float64) {
	if v.IsZero() {
		v = Neutral()
	}
	chs := v.Channels()
	best := chs[0]
	for _, ch := range chs[1:] {
		if ch.Value > best.Value {
			best = ch
		}
	}
	return best.Name, best.Value
}
