package hierarchy

// Pallet is a top-level container: the boxes and items registered under it.
// The sets are identity sets keyed by code.
type Pallet struct {
	Boxes map[string]struct{}
	Items map[string]struct{}
}

// Box is an intermediate container. OwnerPallet is fixed at first
// registration and never updated afterwards.
type Box struct {
	OwnerPallet string
	Items       map[string]struct{}
}

// Item records where a single traceable unit lives.
type Item struct {
	Box    string
	Pallet string
}

// Stats summarizes index size.
type Stats struct {
	Pallets int `json:"pallets"`
	Boxes   int `json:"boxes"`
	Items   int `json:"items"`
}

// Index is the in-memory containment store. It is not safe for concurrent
// mutation; the process owns exactly one and mutates it from a single
// logical thread of control.
type Index struct {
	pallets map[string]*Pallet
	boxes   map[string]*Box
	items   map[string]Item
}

// New creates an empty index.
func New() *Index {
	return &Index{
		pallets: make(map[string]*Pallet),
		boxes:   make(map[string]*Box),
		items:   make(map[string]Item),
	}
}

// Register records one (item, box, pallet) row.
//
// Pallet and box entries are created on first reference. The box's owner is
// the pallet of the row that introduced it. If the item is already known the
// call returns false and nothing else changes - but the pallet and box
// entries created above remain.
//
// Returns true when the item was newly registered.
func (x *Index) Register(item, box, pallet string) bool {
	p, ok := x.pallets[pallet]
	if !ok {
		p = &Pallet{
			Boxes: make(map[string]struct{}),
			Items: make(map[string]struct{}),
		}
		x.pallets[pallet] = p
	}

	b, ok := x.boxes[box]
	if !ok {
		b = &Box{
			OwnerPallet: pallet,
			Items:       make(map[string]struct{}),
		}
		x.boxes[box] = b
	}

	if _, dup := x.items[item]; dup {
		return false
	}

	x.items[item] = Item{Box: box, Pallet: pallet}
	p.Boxes[box] = struct{}{}
	p.Items[item] = struct{}{}
	b.Items[item] = struct{}{}
	return true
}

// HasPallet reports whether a pallet code is known.
func (x *Index) HasPallet(id string) bool {
	_, ok := x.pallets[id]
	return ok
}

// HasBox reports whether a box code is known.
func (x *Index) HasBox(id string) bool {
	_, ok := x.boxes[id]
	return ok
}

// HasItem reports whether an item code is known.
func (x *Index) HasItem(id string) bool {
	_, ok := x.items[id]
	return ok
}

// Pallet returns the pallet entry for id.
func (x *Index) Pallet(id string) (*Pallet, error) {
	p, ok := x.pallets[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindPallet, ID: id}
	}
	return p, nil
}

// Box returns the box entry for id.
func (x *Index) Box(id string) (*Box, error) {
	b, ok := x.boxes[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindBox, ID: id}
	}
	return b, nil
}

// Item returns the item entry for id.
func (x *Index) Item(id string) (Item, error) {
	it, ok := x.items[id]
	if !ok {
		return Item{}, &NotFoundError{Kind: KindItem, ID: id}
	}
	return it, nil
}

// Stats returns current entity counts.
func (x *Index) Stats() Stats {
	return Stats{
		Pallets: len(x.pallets),
		Boxes:   len(x.boxes),
		Items:   len(x.items),
	}
}

// Clear empties all three collections.
func (x *Index) Clear() {
	x.pallets = make(map[string]*Pallet)
	x.boxes = make(map[string]*Box)
	x.items = make(map[string]Item)
}

// PalletIDs returns all pallet codes in unspecified order.
// Callers needing determinism (persistence, reports) sort the result.
func (x *Index) PalletIDs() []string {
	ids := make([]string, 0, len(x.pallets))
	for id := range x.pallets {
		ids = append(ids, id)
	}
	return ids
}

// BoxIDs returns all box codes in unspecified order.
func (x *Index) BoxIDs() []string {
	ids := make([]string, 0, len(x.boxes))
	for id := range x.boxes {
		ids = append(ids, id)
	}
	return ids
}

// ItemIDs returns all item codes in unspecified order.
func (x *Index) ItemIDs() []string {
	ids := make([]string, 0, len(x.items))
	for id := range x.items {
		ids = append(ids, id)
	}
	return ids
}
