package store

import (
	"context"
	"fmt"

	"riskgate/internal/assessment"
	"riskgate/internal/masterdata"
	"riskgate/pkg/requestcontext"
)

type seedEntry struct {
	key  string
	band assessment.RiskBand
}

var seedCountries = []seedEntry{
	{"Afghanistan", assessment.BandNoGo},
	{"Myanmar", assessment.BandNoGo},
	{"Nigeria", assessment.BandNoGo},
	{"North Korea", assessment.BandNoGo},
	{"Pakistan", assessment.BandNoGo},
	{"Russia", assessment.BandNoGo},
	{"Cuba", assessment.BandNoGo},
	{"DR Congo", assessment.BandNoGo},
	{"Somalia", assessment.BandNoGo},
	{"South Sudan", assessment.BandNoGo},
	{"Sudan", assessment.BandNoGo},
	{"Syria", assessment.BandNoGo},

	{"Australia", assessment.BandLow},
	{"Austria", assessment.BandLow},
	{"Belgium", assessment.BandLow},
	{"Canada", assessment.BandLow},
	{"Denmark", assessment.BandLow},
	{"Finland", assessment.BandLow},
	{"France", assessment.BandLow},
	{"Germany", assessment.BandLow},
	{"Netherlands", assessment.BandLow},
	{"New Zealand", assessment.BandLow},
	{"Norway", assessment.BandLow},
	{"Singapore", assessment.BandLow},
	{"Sweden", assessment.BandLow},
	{"Switzerland", assessment.BandLow},
	{"United Kingdom", assessment.BandLow},
	{"United States", assessment.BandLow},

	{"Mauritius", assessment.BandMedium},
	{"Argentina", assessment.BandMedium},
	{"Brazil", assessment.BandMedium},
	{"India", assessment.BandMedium},
	{"South Africa", assessment.BandMedium},
	{"Thailand", assessment.BandMedium},

	{"Albania", assessment.BandHigh},
	{"Bangladesh", assessment.BandHigh},
	{"China", assessment.BandHigh},
	{"Egypt", assessment.BandHigh},
	{"Iran", assessment.BandHigh},
	{"Iraq", assessment.BandHigh},
	{"Turkey", assessment.BandHigh},
	{"Venezuela", assessment.BandHigh},
}

var seedEmployment = []seedEntry{
	{"HomeMaker (Work from home)", assessment.BandLow},
	{"Minor", assessment.BandLow},
	{"Pension (Disable Person)", assessment.BandLow},
	{"Retired", assessment.BandLow},
	{"Salaried", assessment.BandLow},
	{"Student", assessment.BandLow},

	{"Freelancer", assessment.BandMedium},
	{"Fund Managers", assessment.BandMedium},
	{"Others", assessment.BandMedium},
	{"Real Estate Agents", assessment.BandMedium},
	{"Self Employed – Freight", assessment.BandMedium},
	{"Self Employed – Health Care", assessment.BandMedium},
	{"Self Employed – Trader", assessment.BandMedium},
	{"Self Employed – Contractor", assessment.BandMedium},

	{"Accountant", assessment.BandHigh},
	{"Consultant/Advisor", assessment.BandHigh},
	{"Lawyer", assessment.BandHigh},
	{"Self Employed – Jeweller", assessment.BandHigh},
	{"Stockbrokers", assessment.BandHigh},
	{"Unemployed", assessment.BandHigh},

	{"Self Employed – Car Dealer", assessment.BandAutoHigh},
	{"Self Employed – Home Owner/BookMaker", assessment.BandAutoHigh},
}

var seedProducts = []seedEntry{
	{"Emma Account", assessment.BandLow},
	{"First Step Account", assessment.BandLow},
	{"Mortgage Loans", assessment.BandLow},
	{"Mutual Funds", assessment.BandLow},
	{"Savings Account", assessment.BandLow},
	{"Secured Loans (Loan backed by asset)", assessment.BandLow},
	{"Term Deposits", assessment.BandLow},

	{"Business Loan", assessment.BandMedium},
	{"Current Account", assessment.BandMedium},
	{"Debit Card", assessment.BandMedium},
	{"FCY account", assessment.BandMedium},
	{"Insurance Plan", assessment.BandMedium},
	{"Overdraft and Short term Loan", assessment.BandMedium},
	{"Treasury relationships", assessment.BandMedium},

	{"Credit Card", assessment.BandHigh},
	{"Custodian Services", assessment.BandHigh},
	{"Investment", assessment.BandHigh},
	{"Pre-Paid Card", assessment.BandHigh},
	{"Safe Deposit Locker", assessment.BandHigh},
	{"Trade Finance Relationships", assessment.BandHigh},
	{"Unsecured Loans", assessment.BandHigh},
	{"Wealth Management products", assessment.BandHigh},
}

var seedBusinesses = []seedEntry{
	{"Agriculture/Fishing", assessment.BandLow},
	{"Cleaning Services", assessment.BandLow},
	{"Construction", assessment.BandLow},
	{"Education", assessment.BandLow},
	{"Food/Drink Production", assessment.BandLow},
	{"Manufacturing", assessment.BandLow},
	{"Marine Equipment", assessment.BandLow},
	{"Marketing activities", assessment.BandLow},
	{"Supermarket/Hypermarket", assessment.BandLow},
	{"Transport", assessment.BandLow},

	{"Asset Managers/Financial Advisors", assessment.BandMedium},
	{"Associations/Societies/Co-operative", assessment.BandMedium},
	{"Freight", assessment.BandMedium},
	{"Fund Managers", assessment.BandMedium},
	{"Green Energy/Alternative energy", assessment.BandMedium},
	{"Health Care", assessment.BandMedium},
	{"Insurance companies/agent", assessment.BandMedium},
	{"Other", assessment.BandMedium},
	{"Parastatal/Municipality/District/Village council", assessment.BandMedium},
	{"Partnership/Society/Association", assessment.BandMedium},
	{"Real Estate", assessment.BandMedium},
	{"Sport club/health club", assessment.BandMedium},
	{"Tourism/hotels/Restaurants", assessment.BandMedium},
	{"Trader – Foodstuff", assessment.BandMedium},
	{"Trader – Non Foodstuffs", assessment.BandMedium},
	{"Trader- Motor/Spare Parts", assessment.BandMedium},
	{"Trader- Wholesaler /Retailer", assessment.BandMedium},

	{"Accountant", assessment.BandHigh},
	{"Administration Services", assessment.BandHigh},
	{"Aerospace", assessment.BandHigh},
	{"Aerospace/Aviation Leasing", assessment.BandHigh},
	{"Authorised Company", assessment.BandHigh},
	{"Banking", assessment.BandHigh},
	{"Bars/Clubs", assessment.BandHigh},
	{"Consultancy Services", assessment.BandHigh},
	{"Global Business", assessment.BandHigh},
	{"Information Communications and Technology", assessment.BandHigh},
	{"Jewellers", assessment.BandHigh},
	{"Law Firms", assessment.BandHigh},
	{"Logistics", assessment.BandHigh},
	{"Mining", assessment.BandHigh},
	{"Non banking Financial Institutions", assessment.BandHigh},
	{"Stockbrokers", assessment.BandHigh},

	{"Charities", assessment.BandAutoHigh},
	{"E-commerce", assessment.BandAutoHigh},
	{"Embassies", assessment.BandAutoHigh},
	{"Gambling", assessment.BandAutoHigh},
	{"Military", assessment.BandAutoHigh},
	{"Money Service Business", assessment.BandAutoHigh},
	{"Petroleum products", assessment.BandAutoHigh},
	{"Trader- car dealers", assessment.BandAutoHigh},
	{"Trust/Foundation/Funds", assessment.BandAutoHigh},
}

// Seed upserts the built-in reference data into the store. Idempotent;
// existing entries with matching keys are overwritten.
func Seed(ctx context.Context, s Store) error {
	sets := map[masterdata.Catalog][]seedEntry{
		masterdata.CatalogCountry:    seedCountries,
		masterdata.CatalogEmployment: seedEmployment,
		masterdata.CatalogProduct:    seedProducts,
		masterdata.CatalogBusiness:   seedBusinesses,
	}
	now := requestcontext.Now(ctx)
	for _, catalog := range masterdata.Catalogs {
		for _, e := range sets[catalog] {
			entry := masterdata.Entry{Key: e.key, Band: e.band, UpdatedAt: now}
			if err := s.Upsert(ctx, catalog, entry); err != nil {
				return fmt.Errorf("seed %s %q: %w", catalog, e.key, err)
			}
		}
	}
	return nil
}
