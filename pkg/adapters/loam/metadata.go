package loam

// ModuleMetadata is the frontmatter of a module document.
//
//	---
//	kind: conjunction
//	outputs: [rx]
//	order: 10
//	---
//	Gate in front of the target.
//
// The module name defaults to the document ID without extension. Documents
// without a kind are not modules (READMEs, notes) and are skipped, except for
// the broadcaster whose kind is implied by its name.
type ModuleMetadata struct {
	Name    string   `json:"name" mapstructure:"name"`
	Kind    string   `json:"kind" mapstructure:"kind"`
	Outputs []string `json:"outputs" mapstructure:"outputs"`
	// Order fixes the declaration order; ties are broken by module name.
	Order int `json:"order" mapstructure:"order"`
}
