package refcatalog

// Item is one purchasable variant of a catalog entry. Phone catalogs fill
// StorageGB/Color/RAMGB; laptop catalogs additionally carry OS, disk and GPU
// type.
type Item struct {
	StorageGB int    `json:"storageGb"`
	RAMGB     int    `json:"ramGb"`
	Color     string `json:"color"`
	OS        string `json:"os,omitempty"`
	Disk      string `json:"disk,omitempty"`
	GPUType   string `json:"gpuType,omitempty"`
}

// CPU describes a processor option listed for a laptop entry.
type CPU struct {
	Line  string `json:"line"`
	Name  string `json:"name"`
	Cores int    `json:"cores"`
}

// Entry is a canonical device model with its valid attribute combinations.
// Entries are immutable once loaded; reloading swaps the whole catalog.
type Entry struct {
	Vendor     string `json:"vendor"`
	Model      string `json:"model"`
	Normalized string `json:"-"`
	CPUs       []CPU  `json:"cpus,omitempty"`
	Items      []Item `json:"items"`
}

// Catalog is a loaded reference document.
type Catalog struct {
	Kind    string
	Entries []Entry
}
