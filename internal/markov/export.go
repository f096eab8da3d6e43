package markov

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"subkatsu/internal/services"
)

type yamlModel struct {
	Metadata    `yaml:",inline"`
	Transitions []yamlTransition `yaml:"transitions"`
}

type yamlTransition struct {
	Context []string `yaml:"context,flow"`
	Token   string   `yaml:"token"`
	Count   int      `yaml:"count"`
}

// Export writes chain and its metadata as YAML. Boundaries appear as empty
// strings in contexts and as an empty token for line ends.
func Export(w io.Writer, chain *Chain, meta Metadata) error {
	if chain == nil {
		return services.Wrap(services.ErrModel, "markov", "export", "chain is nil", nil)
	}
	meta.Order = chain.Order()
	meta.Sequences = chain.Stats().Sequences

	doc := yamlModel{Metadata: meta}
	for _, tr := range chain.Transitions() {
		doc.Transitions = append(doc.Transitions, yamlTransition{
			Context: tr.Context,
			Token:   tr.Token,
			Count:   tr.Count,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return services.Wrap(services.ErrModel, "markov", "export", "encode yaml", err)
	}
	if err := enc.Close(); err != nil {
		return services.Wrap(services.ErrModel, "markov", "export", "flush yaml", err)
	}
	return nil
}

// Import reads a YAML document written by Export. The chain is frozen.
func Import(r io.Reader) (*Chain, Metadata, error) {
	var doc yamlModel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "import", "decode yaml", err)
	}

	transitions := make([]Transition, 0, len(doc.Transitions))
	for _, tr := range doc.Transitions {
		transitions = append(transitions, Transition{Context: tr.Context, Token: tr.Token, Count: tr.Count})
	}
	chain, err := restore(doc.Order, doc.Sequences, transitions)
	if err != nil {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "import", fmt.Sprintf("invalid model (order %d)", doc.Order), err)
	}
	return chain, doc.Metadata, nil
}
