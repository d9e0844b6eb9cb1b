// Package branch provides a bimodal branch predictor with a branch target
// buffer for the timing model.
package branch

// Config holds configuration for the branch predictor.
type Config struct {
	// BHTSize is the number of entries in the Branch History Table.
	// Rounded up to a power of 2. Default is 256.
	BHTSize uint32
	// BTBSize is the number of entries in the Branch Target Buffer.
	// Rounded up to a power of 2. Default is 64.
	BTBSize uint32
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		BHTSize: 256,
		BTBSize: 64,
	}
}

// Stats holds statistics for the branch predictor.
type Stats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
	// BTBHits is the number of BTB hits.
	BTBHits uint64
	// BTBMisses is the number of BTB misses.
	BTBMisses uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s Stats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// Prediction represents a branch prediction result.
type Prediction struct {
	// Taken indicates whether the branch is predicted to be taken.
	Taken bool
	// Target is the predicted target address (if known from BTB).
	Target uint16
	// TargetKnown indicates whether the target address is known.
	TargetKnown bool
}

// Correct reports whether the prediction matches the resolved outcome. A
// taken prediction also needs the right target.
func (p Prediction) Correct(taken bool, target uint16) bool {
	if p.Taken != taken {
		return false
	}
	return !taken || (p.TargetKnown && p.Target == target)
}

// Predictor implements 2-bit saturating counters indexed by PC plus a
// direct-mapped Branch Target Buffer.
type Predictor struct {
	// Counter states: 0=Strongly Not Taken, 1=Weakly Not Taken,
	// 2=Weakly Taken, 3=Strongly Taken
	bht []uint8

	btb      []btbEntry
	btbValid []bool

	bhtSize uint32
	btbSize uint32

	stats Stats
}

type btbEntry struct {
	pc     uint16
	target uint16
}

// New creates a new branch predictor. Zero sizes fall back to the defaults
// and other sizes are rounded up to a power of 2.
func New(config Config) *Predictor {
	defaults := DefaultConfig()
	if config.BHTSize == 0 {
		config.BHTSize = defaults.BHTSize
	}
	if config.BTBSize == 0 {
		config.BTBSize = defaults.BTBSize
	}

	bp := &Predictor{
		bhtSize: roundUpPow2(config.BHTSize),
		btbSize: roundUpPow2(config.BTBSize),
	}
	bp.Reset()

	return bp
}

// Size returns the table sizes in use.
func (bp *Predictor) Size() Config {
	return Config{BHTSize: bp.bhtSize, BTBSize: bp.btbSize}
}

// Reset forgets all history and statistics. Counters start weakly taken.
func (bp *Predictor) Reset() {
	bp.bht = make([]uint8, bp.bhtSize)
	for i := range bp.bht {
		bp.bht[i] = 2
	}
	bp.btb = make([]btbEntry, bp.btbSize)
	bp.btbValid = make([]bool, bp.btbSize)
	bp.stats = Stats{}
}

// PCs are word addresses, so every low bit is significant.
func (bp *Predictor) bhtIndex(pc uint16) uint32 {
	return uint32(pc) & (bp.bhtSize - 1)
}

func (bp *Predictor) btbIndex(pc uint16) uint32 {
	return uint32(pc) & (bp.btbSize - 1)
}

// Predict makes a branch prediction for the branch at pc.
func (bp *Predictor) Predict(pc uint16) Prediction {
	pred := Prediction{
		Taken: bp.bht[bp.bhtIndex(pc)] >= 2,
	}

	idx := bp.btbIndex(pc)
	if bp.btbValid[idx] && bp.btb[idx].pc == pc {
		pred.Target = bp.btb[idx].target
		pred.TargetKnown = true
		bp.stats.BTBHits++
	} else {
		bp.stats.BTBMisses++
	}

	bp.stats.Predictions++
	return pred
}

// Update trains the predictor with the resolved outcome of the branch at pc
// and records whether pred was correct.
func (bp *Predictor) Update(pc uint16, pred Prediction, taken bool, target uint16) {
	if pred.Correct(taken, target) {
		bp.stats.Correct++
	} else {
		bp.stats.Mispredictions++
	}

	idx := bp.bhtIndex(pc)
	counter := bp.bht[idx]
	if taken {
		if counter < 3 {
			bp.bht[idx] = counter + 1
		}
	} else if counter > 0 {
		bp.bht[idx] = counter - 1
	}

	if taken {
		btbIdx := bp.btbIndex(pc)
		bp.btb[btbIdx] = btbEntry{pc: pc, target: target}
		bp.btbValid[btbIdx] = true
	}
}

// Stats returns the branch predictor statistics.
func (bp *Predictor) Stats() Stats {
	return bp.stats
}

func roundUpPow2(n uint32) uint32 {
	size := uint32(1)
	for size < n && size < 1<<31 {
		size <<= 1
	}
	return size
}
