package entity

// NetworkAddress is one contract's address on one network, as written to the address files.
type NetworkAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AddressBook accumulates network addresses into per-network buckets.
// Buckets keep the order they were created in and records keep insertion order.
type AddressBook struct {
	order   []NetworkName
	buckets map[NetworkName][]NetworkAddress
}

// NewAddressBook creates an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{buckets: make(map[NetworkName][]NetworkAddress)}
}

// Add appends a record to the network's bucket, creating the bucket on first use.
func (b *AddressBook) Add(network NetworkName, record NetworkAddress) {
	if _, ok := b.buckets[network]; !ok {
		b.order = append(b.order, network)
	}
	b.buckets[network] = append(b.buckets[network], record)
}

// Networks returns the populated networks in bucket creation order.
func (b *AddressBook) Networks() []NetworkName {
	return append([]NetworkName(nil), b.order...)
}

// Addresses returns the records of a network and whether its bucket exists.
func (b *AddressBook) Addresses(network NetworkName) ([]NetworkAddress, bool) {
	records, ok := b.buckets[network]
	if !ok {
		return nil, false
	}
	return append([]NetworkAddress(nil), records...), true
}

// Len returns the number of populated networks.
func (b *AddressBook) Len() int {
	return len(b.order)
}

// Set replaces the records of a network, creating its bucket on first use.
func (b *AddressBook) Set(network NetworkName, records []NetworkAddress) {
	if _, ok := b.buckets[network]; !ok {
		b.order = append(b.order, network)
	}
	b.buckets[network] = append([]NetworkAddress(nil), records...)
}

// Clone returns a deep copy of the address book.
func (b *AddressBook) Clone() *AddressBook {
	clone := NewAddressBook()
	for _, network := range b.order {
		clone.Set(network, b.buckets[network])
	}
	return clone
}
