package account

// WaitForMail blocks until background reset emails have been handed to the
// mailer.
func (h *Handler) WaitForMail() { h.mailWG.Wait() }

// CountBcrypt replaces the hash and verify hooks with counting wrappers and
// returns the counter plus a restore func. The dummy hash is computed first
// so it does not show up in the count.
func CountBcrypt() (calls *int, restore func()) {
	dummyHash()
	n := 0
	origHash, origVerify := hashSecret, verifySecret
	hashSecret = func(plain string) (string, error) {
		n++
		return origHash(plain)
	}
	verifySecret = func(candidate, hash string) bool {
		n++
		return origVerify(candidate, hash)
	}
	return &n, func() {
		hashSecret, verifySecret = origHash, origVerify
	}
}
