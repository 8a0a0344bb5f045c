package engine

// ComputeFee maps batch size to the required fee: perRecipientFee per
// recipient with minimumFee as the floor.
func ComputeFee(perRecipientFee, minimumFee int64, recipientCount int) (int64, error) {
	if recipientCount == 0 {
		return 0, ErrEmptyBatch
	}
	fee := perRecipientFee * int64(recipientCount)
	if fee < minimumFee {
		fee = minimumFee
	}
	return fee, nil
}
