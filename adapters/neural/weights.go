package neural

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"neurosym/domain/experiment"
	"neurosym/internal"
)

// weightsDoc is the serialized parameter state of an MLP
type weightsDoc struct {
	InputSize  int                        `json:"input_size"`
	HiddenSize int                        `json:"hidden_size"`
	NumClasses int                        `json:"num_classes"`
	Hyper      experiment.Hyperparameters `json:"hyperparameters"`
	W1         []float64                  `json:"w1"`
	B1         []float64                  `json:"b1"`
	W2         []float64                  `json:"w2"`
	B2         []float64                  `json:"b2"`
}

// MarshalWeights serializes the trained parameter state
func (m *MLP) MarshalWeights() ([]byte, error) {
	doc := weightsDoc{
		InputSize:  m.inputSize,
		HiddenSize: m.hiddenSize,
		NumClasses: m.numClasses,
		Hyper:      m.hyper,
		W1:         m.w1.RawMatrix().Data,
		B1:         m.b1.RawMatrix().Data,
		W2:         m.w2.RawMatrix().Data,
		B2:         m.b2.RawMatrix().Data,
	}
	return json.Marshal(doc)
}

// UnmarshalWeights restores a network from a serialized parameter state
func UnmarshalWeights(data []byte) (*MLP, error) {
	var doc weightsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal weights: %w", err)
	}
	if len(doc.W1) != doc.InputSize*doc.HiddenSize ||
		len(doc.W2) != doc.HiddenSize*doc.NumClasses ||
		len(doc.B1) != doc.HiddenSize ||
		len(doc.B2) != doc.NumClasses {
		return nil, fmt.Errorf("weights document has inconsistent shapes")
	}
	return &MLP{
		inputSize:  doc.InputSize,
		hiddenSize: doc.HiddenSize,
		numClasses: doc.NumClasses,
		hyper:      doc.Hyper,
		w1:         mat.NewDense(doc.InputSize, doc.HiddenSize, doc.W1),
		b1:         mat.NewDense(1, doc.HiddenSize, doc.B1),
		w2:         mat.NewDense(doc.HiddenSize, doc.NumClasses, doc.W2),
		b2:         mat.NewDense(1, doc.NumClasses, doc.B2),
		logger:     internal.DefaultLogger,
	}, nil
}
