// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package wallet

import "fmt"

// DuplicateNameError reports that the chosen alias already belongs to an
// existing account. It is user-facing and recoverable: the user edits the
// name and resubmits.
type DuplicateNameError struct {
	Alias string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("an account named %q already exists", e.Alias)
}

// InvalidAlgorithmError reports an algorithm name outside the supported
// set. The UI only offers valid values, so seeing this error indicates a
// programming or configuration defect, not user input to retry.
type InvalidAlgorithmError struct {
	Algorithm string
}

func (e *InvalidAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported signature algorithm %q", e.Algorithm)
}
