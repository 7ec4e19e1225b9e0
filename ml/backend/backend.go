// backend.go - Registriert alle verfuegbaren Backends
package backend

import (
	_ "github.com/tedll/tedll/ml/backend/dense"
)
