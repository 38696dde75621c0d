package records

import "github.com/hetznercloud/hcloud-go/v2/hcloud"

type Image struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	OSFlavor     string  `json:"os_flavor"`
	OSVersion    *string `json:"os_version"`
	Architecture string  `json:"architecture"`
	SizeGB       float32 `json:"size_gb"`
	Created      *string `json:"created"`
}

func FromImage(img *hcloud.Image) *Image {
	if img == nil {
		return nil
	}
	return &Image{
		ID:           img.ID,
		Name:         img.Name,
		Description:  img.Description,
		Type:         string(img.Type),
		Status:       string(img.Status),
		OSFlavor:     img.OSFlavor,
		OSVersion:    optional(img.OSVersion),
		Architecture: string(img.Architecture),
		SizeGB:       img.DiskSize,
		Created:      timestamp(img.Created),
	}
}

func FromImages(images []*hcloud.Image) []*Image {
	out := make([]*Image, 0, len(images))
	for _, img := range images {
		if r := FromImage(img); r != nil {
			out = append(out, r)
		}
	}
	return out
}

type ServerType struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Cores        int               `json:"cores"`
	MemoryGB     float32           `json:"memory_gb"`
	DiskGB       int               `json:"disk_gb"`
	StorageType  string            `json:"storage_type"`
	CPUType      string            `json:"cpu_type"`
	Architecture string            `json:"architecture"`
	Prices       []ServerTypePrice `json:"prices"`
}

// ServerTypePrice is the price of a server type in one location.
type ServerTypePrice struct {
	Location     *string `json:"location"`
	PriceHourly  Price   `json:"price_hourly"`
	PriceMonthly Price   `json:"price_monthly"`
}

// Price amounts are decimal strings exactly as reported by the API.
type Price struct {
	Net   string `json:"net"`
	Gross string `json:"gross"`
}

func FromServerType(st *hcloud.ServerType) *ServerType {
	if st == nil {
		return nil
	}

	out := &ServerType{
		ID:           st.ID,
		Name:         st.Name,
		Description:  st.Description,
		Cores:        st.Cores,
		MemoryGB:     st.Memory,
		DiskGB:       st.Disk,
		StorageType:  string(st.StorageType),
		CPUType:      string(st.CPUType),
		Architecture: string(st.Architecture),
		Prices:       make([]ServerTypePrice, 0, len(st.Pricings)),
	}
	for _, p := range st.Pricings {
		price := ServerTypePrice{
			PriceHourly:  Price{Net: p.Hourly.Net, Gross: p.Hourly.Gross},
			PriceMonthly: Price{Net: p.Monthly.Net, Gross: p.Monthly.Gross},
		}
		if p.Location != nil {
			price.Location = &p.Location.Name
		}
		out.Prices = append(out.Prices, price)
	}
	return out
}

func FromServerTypes(types []*hcloud.ServerType) []*ServerType {
	out := make([]*ServerType, 0, len(types))
	for _, st := range types {
		if r := FromServerType(st); r != nil {
			out = append(out, r)
		}
	}
	return out
}

type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Country     string  `json:"country"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	NetworkZone string  `json:"network_zone"`
}

func FromLocation(l *hcloud.Location) *Location {
	if l == nil {
		return nil
	}
	return &Location{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Country:     l.Country,
		City:        l.City,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		NetworkZone: string(l.NetworkZone),
	}
}

func FromLocations(locations []*hcloud.Location) []*Location {
	out := make([]*Location, 0, len(locations))
	for _, l := range locations {
		if r := FromLocation(l); r != nil {
			out = append(out, r)
		}
	}
	return out
}
