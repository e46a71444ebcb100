package neural

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"neurosym/domain/experiment"
	"neurosym/internal"
)

// MLP is a single-hidden-layer feedforward network: ReLU hidden layer,
// softmax output, cross-entropy loss, minibatch SGD. The rest of the core
// treats it as an opaque feature-to-logit mapper; all it guarantees is a
// deterministic Predict for a fixed parameter state and a Fit that runs to
// a terminal state.
type MLP struct {
	inputSize  int
	hiddenSize int
	numClasses int

	w1 *mat.Dense // inputSize x hiddenSize
	b1 *mat.Dense // 1 x hiddenSize
	w2 *mat.Dense // hiddenSize x numClasses
	b2 *mat.Dense // 1 x numClasses

	hyper  experiment.Hyperparameters
	logger *internal.Logger
}

// NewMLP creates an untrained network. Weights are initialized from the
// provided generator so identical seeds yield identical parameter states.
func NewMLP(inputSize, numClasses int, hyper experiment.Hyperparameters, rng *rand.Rand) *MLP {
	hyper = hyper.Defaults()
	m := &MLP{
		inputSize:  inputSize,
		hiddenSize: hyper.HiddenSize,
		numClasses: numClasses,
		hyper:      hyper,
		logger:     internal.DefaultLogger,
	}
	m.w1 = randomDense(inputSize, m.hiddenSize, math.Sqrt(2.0/float64(inputSize)), rng)
	m.b1 = mat.NewDense(1, m.hiddenSize, nil)
	m.w2 = randomDense(m.hiddenSize, numClasses, math.Sqrt(2.0/float64(m.hiddenSize)), rng)
	m.b2 = mat.NewDense(1, numClasses, nil)
	return m
}

func randomDense(rows, cols int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

// Fit trains to a terminal parameter state with minibatch SGD
func (m *MLP) Fit(features [][]float64, labels []int, rng *rand.Rand) error {
	n := len(features)
	if n == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(features[0]) != m.inputSize {
		return fmt.Errorf("input width %d does not match network input size %d",
			len(features[0]), m.inputSize)
	}

	batchSize := m.hyper.BatchSize
	if batchSize > n {
		batchSize = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < m.hyper.Epochs; epoch++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss float64
		var batches int
		for start := 0; start < n; start += batchSize {
			end := start + batchSize
			if end > n {
				end = n
			}
			x, y := m.batch(features, labels, order[start:end])
			epochLoss += m.step(x, y, end-start)
			batches++
		}

		if (epoch+1)%10 == 0 {
			m.logger.Debug("epoch %d/%d, loss %.4f", epoch+1, m.hyper.Epochs, epochLoss/float64(batches))
		}
	}
	return nil
}

// batch assembles the design matrix and one-hot target matrix for a
// minibatch.
func (m *MLP) batch(features [][]float64, labels []int, idx []int) (*mat.Dense, *mat.Dense) {
	x := mat.NewDense(len(idx), m.inputSize, nil)
	y := mat.NewDense(len(idx), m.numClasses, nil)
	for row, i := range idx {
		x.SetRow(row, features[i])
		y.Set(row, labels[i], 1)
	}
	return x, y
}

// step runs one forward/backward pass and applies the gradient. Returns the
// mean cross-entropy of the batch.
func (m *MLP) step(x, y *mat.Dense, n int) float64 {
	// Forward
	z1 := affine(x, m.w1, m.b1)
	h := applyDense(z1, relu)
	z2 := affine(h, m.w2, m.b2)
	p := softmaxRows(z2)

	loss := crossEntropy(p, y)

	// Backward: dZ2 = (P - Y) / n
	rows, _ := p.Dims()
	dz2 := mat.NewDense(rows, m.numClasses, nil)
	dz2.Sub(p, y)
	dz2.Scale(1.0/float64(n), dz2)

	var dw2 mat.Dense
	dw2.Mul(h.T(), dz2)
	db2 := colSums(dz2)

	var dh mat.Dense
	dh.Mul(dz2, m.w2.T())
	dh.Apply(func(i, j int, v float64) float64 {
		if z1.At(i, j) <= 0 {
			return 0
		}
		return v
	}, &dh)

	var dw1 mat.Dense
	dw1.Mul(x.T(), &dh)
	db1 := colSums(&dh)

	lr := m.hyper.LearningRate
	applyGradient(m.w1, &dw1, lr)
	applyGradient(m.b1, db1, lr)
	applyGradient(m.w2, &dw2, lr)
	applyGradient(m.b2, db2, lr)

	return loss
}

// Logits returns the raw per-class scores for each input row
func (m *MLP) Logits(features [][]float64) ([][]float64, error) {
	if len(features) == 0 {
		return nil, nil
	}
	if len(features[0]) != m.inputSize {
		return nil, fmt.Errorf("input width %d does not match network input size %d",
			len(features[0]), m.inputSize)
	}
	x := mat.NewDense(len(features), m.inputSize, nil)
	for i, row := range features {
		x.SetRow(i, row)
	}
	h := applyDense(affine(x, m.w1, m.b1), relu)
	z2 := affine(h, m.w2, m.b2)

	out := make([][]float64, len(features))
	for i := range out {
		out[i] = mat.Row(nil, i, z2)
	}
	return out, nil
}

// Proba returns softmax class probabilities for each input row
func (m *MLP) Proba(features [][]float64) ([][]float64, error) {
	logits, err := m.Logits(features)
	if err != nil || logits == nil {
		return nil, err
	}
	out := make([][]float64, len(logits))
	for i, row := range logits {
		out[i] = softmaxVec(row)
	}
	return out, nil
}

// NumClasses returns the output dimension
func (m *MLP) NumClasses() int {
	return m.numClasses
}

// InputSize returns the expected feature width
func (m *MLP) InputSize() int {
	return m.inputSize
}

// affine computes x*w + b with b broadcast across rows
func affine(x, w, b *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Mul(x, w)
	rows, cols := z.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z.Set(i, j, z.At(i, j)+b.At(0, j))
		}
	}
	return &z
}

func applyDense(x *mat.Dense, f func(float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return f(v) }, x)
	return &out
}

func relu(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func softmaxRows(z *mat.Dense) *mat.Dense {
	rows, cols := z.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		out.SetRow(i, softmaxVec(mat.Row(nil, i, z)))
	}
	return out
}

func softmaxVec(logits []float64) []float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func crossEntropy(p, y *mat.Dense) float64 {
	rows, cols := p.Dims()
	var loss float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if y.At(i, j) > 0 {
				loss -= math.Log(math.Max(p.At(i, j), 1e-12))
			}
		}
	}
	return loss / float64(rows)
}

func colSums(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		out.Set(0, j, sum)
	}
	return out
}

func applyGradient(param, grad *mat.Dense, lr float64) {
	var scaled mat.Dense
	scaled.Scale(lr, grad)
	param.Sub(param, &scaled)
}
