// Package dataset holds the demonstration fixture of Federal District
// administrative regions.
//
// Values come from PDAD 2021 and Censo 2022 aggregates and stand in for the
// per-sector microdata until that pipeline exists.
package dataset

import "censo-df/internal/domain/entity"

var demoRegions = []entity.RegionRecord{
	{SectorCode: "530010805060001", RegionName: "Plano Piloto", Population: 214529, AreaKm2: 472.12, AverageIncome: 8285.00, ElderlyPercentage: 16.2, HouseholdCount: 91234},
	{SectorCode: "530010805080001", RegionName: "Taguatinga", Population: 221909, AreaKm2: 121.34, AverageIncome: 3890.00, ElderlyPercentage: 13.8, HouseholdCount: 78456},
	{SectorCode: "530010805150001", RegionName: "Ceilândia", Population: 398374, AreaKm2: 230.33, AverageIncome: 1915.00, ElderlyPercentage: 9.1, HouseholdCount: 126789},
	{SectorCode: "530010805170001", RegionName: "Samambaia", Population: 254439, AreaKm2: 105.00, AverageIncome: 1650.00, ElderlyPercentage: 7.5, HouseholdCount: 85234},
	{SectorCode: "530010805200001", RegionName: "Águas Claras", Population: 135685, AreaKm2: 31.50, AverageIncome: 5120.00, ElderlyPercentage: 8.3, HouseholdCount: 52876},
	{SectorCode: "530010805100001", RegionName: "Sobradinho", Population: 69363, AreaKm2: 203.00, AverageIncome: 3015.00, ElderlyPercentage: 11.6, HouseholdCount: 23456},
	{SectorCode: "530010805110001", RegionName: "Planaltina", Population: 195000, AreaKm2: 1534.69, AverageIncome: 1530.00, ElderlyPercentage: 6.8, HouseholdCount: 62345},
	{SectorCode: "530010805090001", RegionName: "Brazlândia", Population: 53534, AreaKm2: 474.83, AverageIncome: 1780.00, ElderlyPercentage: 10.2, HouseholdCount: 17890},
	{SectorCode: "530010805120001", RegionName: "Paranoá", Population: 65533, AreaKm2: 853.33, AverageIncome: 1650.00, ElderlyPercentage: 5.9, HouseholdCount: 21567},
	{SectorCode: "530010805070001", RegionName: "Gama", Population: 130580, AreaKm2: 276.34, AverageIncome: 2340.00, ElderlyPercentage: 12.4, HouseholdCount: 45678},
}

// DemoRegions returns a fresh copy of the ten demonstration rows.
// PopulationDensity is left at zero; it is derived downstream.
func DemoRegions() []entity.RegionRecord {
	out := make([]entity.RegionRecord, len(demoRegions))
	copy(out, demoRegions)
	return out
}
