package model

// CartSubmission is the unvalidated payload received by order intake.
type CartSubmission struct {
	Customer CustomerInput
	Items    []CartItemInput
}

// CartItemInput is one requested product line.
type CartItemInput struct {
	ProductID int64 `validate:"gt=0"`
	Quantity  int   `validate:"min=1,max=50"`
}

// Cart is a validated and normalized submission.
type Cart struct {
	Customer Customer
	Items    []CartItem
}

// CartItem is a validated product line.
type CartItem struct {
	ProductID int64
	Quantity  int
}

// ProductIDs returns the distinct product ids in request order.
func (c Cart) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.Items))
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
