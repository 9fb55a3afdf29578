package memory

import "github.com/bardown/lacrosse-tracker/internal/domain/conference"

// SeedConferences returns the Division I men's lacrosse conference set for
// the in-memory store, mirroring the database seed.
func SeedConferences() []conference.Conference {
	return []conference.Conference{
		{ID: "conf-acc", Name: "ACC", Abbreviation: "ACC", NCAAName: "acc"},
		{ID: "conf-bigeast", Name: "Big East", Abbreviation: "BIGEAST", NCAAName: "big east"},
		{ID: "conf-b1g", Name: "Big Ten", Abbreviation: "B1G", NCAAName: "big ten"},
		{ID: "conf-patriot", Name: "Patriot", Abbreviation: "PATRIOT", NCAAName: "patriot"},
		{ID: "conf-ivy", Name: "Ivy League", Abbreviation: "IVY", NCAAName: "ivy league"},
		{ID: "conf-caa", Name: "CAA", Abbreviation: "CAA", NCAAName: "caa"},
		{ID: "conf-maac", Name: "MAAC", Abbreviation: "MAAC", NCAAName: "maac"},
		{ID: "conf-ae", Name: "America East", Abbreviation: "AE", NCAAName: "america east"},
		{ID: "conf-a10", Name: "Atlantic 10", Abbreviation: "A10", NCAAName: "atlantic 10"},
		{ID: "conf-nec", Name: "NEC", Abbreviation: "NEC", NCAAName: "nec"},
		{ID: "conf-socon", Name: "SoCon", Abbreviation: "SOCON", NCAAName: "southern"},
		{ID: "conf-asun", Name: "ASUN", Abbreviation: "ASUN", NCAAName: "asun"},
	}
}
