package response

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// copyInto maps read models onto response DTOs by field name. A failure is a programming
// error in the DTO definitions, so it panics and is rendered as 500 by the recovery middleware.
func copyInto[T any](src any) *T {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		panic(fmt.Sprintf("copy %T into %T: %v", src, dst, err))
	}
	return &dst
}
