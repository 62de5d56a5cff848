package menu

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/menutree/internal/apperr"
)

// Validate checks a single node's own fields.
func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Key, validation.Required),
	)
}

// Validate checks every node and that keys are unique across the whole tree.
// Search assumes these properties; loaders call Validate before publishing a tree.
func (t Tree) Validate() error {
	var err error
	seen := make(map[string]struct{})
	t.Walk(func(n *Node, parents Path) bool {
		if verr := n.Validate(); verr != nil {
			err = fmt.Errorf("%w: node %q under %v: %v", apperr.ErrInvalidTree, n.Key, parents, verr)
			return false
		}
		if _, dup := seen[n.Key]; dup {
			err = fmt.Errorf("%w: %w: %q", apperr.ErrInvalidTree, apperr.ErrDuplicateKey, n.Key)
			return false
		}
		seen[n.Key] = struct{}{}
		return true
	})
	return err
}
