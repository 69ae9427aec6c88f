package entity

// SubdistrictRecord is one row of the SIDRA population table at
// subdistrict level. Code and Name may be empty when the API omits them.
type SubdistrictRecord struct {
	Code       string
	Name       string
	Population int64
}
