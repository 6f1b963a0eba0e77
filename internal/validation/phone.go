package validation

import (
	"context"

	"github.com/nyaruka/phonenumbers"
)

// LibPhoneVerifier validates numbers against libphonenumber metadata.
// Numbers must carry their country code.
type LibPhoneVerifier struct{}

func (LibPhoneVerifier) VerifyPhone(_ context.Context, number string) (bool, error) {
	num, err := phonenumbers.Parse(number, "")
	if err != nil {
		return false, nil
	}
	return phonenumbers.IsValidNumber(num), nil
}
