package methods

import (
	stderrors "errors"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/format"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// ConcatenateName is the message an interpolated literal evaluates through.
const ConcatenateName = ast.ConcatenateTextName

// Concatenate joins the text of each part in order. Parts are stringified
// with caps, or Native capabilities when caps is nil.
func Concatenate(parts []any, caps format.Capabilities) (text.Text, error) {
	if caps == nil {
		caps = format.Native
	}
	var b text.Builder
	for _, part := range parts {
		t, err := caps.ToText(part)
		if err != nil {
			if !stderrors.Is(err, errors.ErrStringify) {
				err = errors.Wrap(errors.CodeStringify, err, map[string]any{"Got": errors.TypeName(part)})
			}
			return text.Empty, err
		}
		b.WriteText(t)
	}
	return b.Text(), nil
}
