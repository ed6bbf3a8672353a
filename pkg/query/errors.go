package query

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stackb/websymbols/pkg/symbol"
)

// IsInvalidArgument reports whether err is the result of a malformed query.
func IsInvalidArgument(err error) bool {
	return err != nil && status.Code(err) == codes.InvalidArgument
}

func invalidArgument(format string, args ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

// validatePath checks the path of a query.  When lastNameOptional is set the
// final segment may have an empty name.
func validatePath(op string, path symbol.Path, lastNameOptional bool) error {
	if len(path) == 0 {
		return invalidArgument("%s: empty path", op)
	}
	for i, qn := range path {
		if qn.Namespace == "" || qn.Kind == "" {
			return invalidArgument("%s: segment %d of %v has an empty namespace or kind", op, i, path)
		}
		if qn.Name == "" && !(lastNameOptional && i == len(path)-1) {
			return invalidArgument("%s: segment %d of %v has an empty name", op, i, path)
		}
	}
	return nil
}

func validateKind(op string, ns symbol.Namespace, kind symbol.Kind) error {
	if ns == "" || kind == "" {
		return invalidArgument("%s: empty namespace or kind (%q, %q)", op, ns, kind)
	}
	return nil
}
