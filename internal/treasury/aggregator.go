// Package treasury computes the treasury reports: revenue by day, employee and
// specialty, top clients and products, client summaries and period totals.
package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/salonspa/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLimit is the number of rows returned by the rankings.
const DefaultLimit = 10

// Fallback labels for missing references.
const (
	NoEmployee  = "Sin asignar"
	NoSpecialty = "Sin especialidad"
	NoService   = "Sin servicio"
)

// weekdays are indexed Monday first.
var weekdays = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

// Aggregator computes reports from a Source.
type Aggregator struct {
	source          Source
	loc             *time.Location
	includeOutflows bool
}

type Option func(*Aggregator)

// WithLocation sets the time zone used to compute weekdays.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithIncludeOutflows sets if negative entries count towards the income of
// the period summary.
func WithIncludeOutflows(include bool) Option {
	return func(a *Aggregator) {
		a.includeOutflows = include
	}
}

// New returns an Aggregator. By default, weekdays are computed in UTC and
// outflows are included in the income total.
func New(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:          source,
		loc:             time.UTC,
		includeOutflows: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Location returns the time zone of the reports.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

type DayRevenue struct {
	Day      string          `json:"dia" example:"Lun"`
	Income   decimal.Decimal `json:"ingresos" example:"25400"`
	Expenses decimal.Decimal `json:"egresos" example:"0"` // Always zero
}

type EmployeeRevenue struct {
	Employee string          `json:"empleado" example:"Lucía Fernández"`
	Income   decimal.Decimal `json:"ingresos" example:"25400"`
}

type SpecialtyRevenue struct {
	Specialty string          `json:"especialidad" example:"Peluquería"`
	Income    decimal.Decimal `json:"ingresos" example:"25400"`
}

type RevenueDetail struct {
	ByDay       []DayRevenue       `json:"byDay"`
	ByEmployee  []EmployeeRevenue  `json:"byEmployee"`
	BySpecialty []SpecialtyRevenue `json:"bySpecialty"`
}

type ClientRanking struct {
	ClientID     uint   `json:"clienteId" example:"7"`
	Name         string `json:"nombre" example:"Ana Gómez"`
	Email        string `json:"email" example:"ana@example.com"`
	Appointments int    `json:"citas" example:"4"`
}

type ProductRanking struct {
	ProductID uint   `json:"productoId" example:"5"`
	Name      string `json:"nombre" example:"Shampoo neutro 500ml"`
	Quantity  int    `json:"cantidad" example:"12"`
}

type ClientSummary struct {
	ClientID              uint            `json:"clienteId" example:"7"`
	Name                  string          `json:"nombre" example:"Ana Gómez"`
	Email                 string          `json:"email" example:"ana@example.com"`
	CompletedAppointments int             `json:"citasCompletadas" example:"4"`
	TotalSpent            decimal.Decimal `json:"totalGastado" example:"48100"`
	ClientSince           time.Time       `json:"clienteDesde" example:"2023-11-02T10:00:00Z"`
}

type ClientAppointment struct {
	AppointmentID uint            `json:"citaId" example:"18"`
	Date          time.Time       `json:"fecha" example:"2024-05-14T15:30:00Z"`
	Service       string          `json:"servicio" example:"Corte y peinado"`
	Employee      string          `json:"empleado" example:"Lucía Fernández"`
	TotalPaid     decimal.Decimal `json:"totalPagado" example:"12700"`
}

type PeriodSummary struct {
	IncomeTotal           decimal.Decimal `json:"ingresosTotales" example:"254000"`
	ExpenseTotal          decimal.Decimal `json:"egresosTotales" example:"180000"`
	NetProfit             decimal.Decimal `json:"gananciaNeta" example:"74000"`
	CompletedAppointments int             `json:"citasCompletadas" example:"31"`
	CancelledAppointments int             `json:"citasCanceladas" example:"3"`
	TotalAppointments     int             `json:"citasTotales" example:"40"`
}

// Overview bundles all reports computed from one Dataset.
type Overview struct {
	Summary  PeriodSummary
	Detail   RevenueDetail
	Clients  []ClientSummary
	Frequent []ClientRanking
	Products []ProductRanking
}

// RevenueDetail groups the revenue of all completed appointments.
func (a *Aggregator) RevenueDetail(ctx context.Context) (RevenueDetail, error) {
	d, err := a.source.Load(ctx, Filter{})
	if err != nil {
		return RevenueDetail{}, err
	}

	return revenueDetail(d, a.loc), nil
}

// TopFrequentClients returns the n clients with most completed appointments.
func (a *Aggregator) TopFrequentClients(ctx context.Context, n int) ([]ClientRanking, error) {
	d, err := a.source.Load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	return topFrequentClients(d, n), nil
}

// TopSellingProducts returns the n products with the highest quantity in
// appointment product lines.
func (a *Aggregator) TopSellingProducts(ctx context.Context, n int) ([]ProductRanking, error) {
	d, err := a.source.Load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	return topSellingProducts(d, n), nil
}

// SummarizeClients summarizes every client with completed appointments.
func (a *Aggregator) SummarizeClients(ctx context.Context) ([]ClientSummary, error) {
	d, err := a.source.Load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	return summarizeClients(d), nil
}

// ClientDetail lists the completed appointments of a client, newest first.
func (a *Aggregator) ClientDetail(ctx context.Context, clientID uint) ([]ClientAppointment, error) {
	d, err := a.source.Load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	return clientDetail(d, clientID), nil
}

// PeriodSummary totals income, expenses and appointments.
func (a *Aggregator) PeriodSummary(ctx context.Context, filter Filter) (PeriodSummary, error) {
	d, err := a.source.Load(ctx, filter)
	if err != nil {
		return PeriodSummary{}, err
	}

	return periodSummary(d, a.includeOutflows), nil
}

// Overview computes all reports from a single load.
func (a *Aggregator) Overview(ctx context.Context, filter Filter) (Overview, error) {
	d, err := a.source.Load(ctx, filter)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Summary:  periodSummary(d, a.includeOutflows),
		Detail:   revenueDetail(d, a.loc),
		Clients:  summarizeClients(d),
		Frequent: topFrequentClients(d, DefaultLimit),
		Products: topSellingProducts(d, DefaultLimit),
	}, nil
}

// completed returns the completed appointments.
func completed(d Dataset) []models.Appointment {
	out := make([]models.Appointment, 0, len(d.Appointments))
	for _, a := range d.Appointments {
		if a.Status == models.AppointmentCompleted {
			out = append(out, a)
		}
	}
	return out
}

func employeeName(a models.Appointment) string {
	if a.Employee == nil || a.Employee.Name == "" {
		return NoEmployee
	}
	return a.Employee.Name
}

func specialtyName(a models.Appointment) string {
	if a.Service == nil || a.Service.Specialty == "" {
		return NoSpecialty
	}
	return a.Service.Specialty
}

func clientLabel(id uint, u *models.User) (name, email string) {
	if u == nil {
		return fmt.Sprintf("Cliente #%d", id), ""
	}
	return u.Name, u.Email
}

// weekday returns the Monday first index of the day of t in loc.
func weekday(t time.Time, loc *time.Location) int {
	return (int(t.In(loc).Weekday()) + 6) % 7
}

// group is a labelled sum.
type group struct {
	label string
	total decimal.Decimal
}

// sumBy accumulates totals per label in order of first appearance.
type sumBy struct {
	index  map[string]int
	groups []group
}

func newSumBy() *sumBy {
	return &sumBy{index: make(map[string]int)}
}

func (s *sumBy) add(label string, amount decimal.Decimal) {
	i, ok := s.index[label]
	if !ok {
		s.groups = append(s.groups, group{label: label, total: decimal.Zero})
		i = len(s.groups) - 1
		s.index[label] = i
	}
	s.groups[i].total = s.groups[i].total.Add(amount)
}

// sorted returns the groups by total descending, then label ascending.
func (s *sumBy) sorted(c *collate.Collator) []group {
	out := slices.Clone(s.groups)
	slices.SortStableFunc(out, func(a, b group) int {
		if cmp := b.total.Cmp(a.total); cmp != 0 {
			return cmp
		}
		return c.CompareString(a.label, b.label)
	})
	return out
}

func revenueDetail(d Dataset, loc *time.Location) RevenueDetail {
	c := collate.New(language.Spanish)

	byDay := make([]DayRevenue, len(weekdays))
	for i, name := range weekdays {
		byDay[i] = DayRevenue{Day: name, Income: decimal.Zero, Expenses: decimal.Zero}
	}

	employees := newSumBy()
	specialties := newSumBy()

	for _, a := range completed(d) {
		revenue := a.Revenue()

		day := &byDay[weekday(a.DateTime, loc)]
		day.Income = day.Income.Add(revenue)

		employees.add(employeeName(a), revenue)
		specialties.add(specialtyName(a), revenue)
	}

	detail := RevenueDetail{
		ByDay:       byDay,
		ByEmployee:  make([]EmployeeRevenue, 0),
		BySpecialty: make([]SpecialtyRevenue, 0),
	}

	for _, g := range employees.sorted(c) {
		detail.ByEmployee = append(detail.ByEmployee, EmployeeRevenue{Employee: g.label, Income: g.total})
	}

	for _, g := range specialties.sorted(c) {
		detail.BySpecialty = append(detail.BySpecialty, SpecialtyRevenue{Specialty: g.label, Income: g.total})
	}

	return detail
}

func limit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	return n
}

func topFrequentClients(d Dataset, n int) []ClientRanking {
	index := make(map[uint]int)
	ranking := make([]ClientRanking, 0)

	for _, a := range completed(d) {
		if a.ClientID == nil {
			continue
		}

		i, ok := index[*a.ClientID]
		if !ok {
			name, email := clientLabel(*a.ClientID, a.Client)
			ranking = append(ranking, ClientRanking{ClientID: *a.ClientID, Name: name, Email: email})
			i = len(ranking) - 1
			index[*a.ClientID] = i
		}
		ranking[i].Appointments++
	}

	slices.SortStableFunc(ranking, func(a, b ClientRanking) int {
		return b.Appointments - a.Appointments
	})

	if len(ranking) > limit(n) {
		ranking = ranking[:limit(n)]
	}

	return ranking
}

func topSellingProducts(d Dataset, n int) []ProductRanking {
	index := make(map[uint]int)
	ranking := make([]ProductRanking, 0)

	for _, a := range d.Appointments {
		for _, line := range a.ProductLines {
			i, ok := index[line.ProductID]
			if !ok {
				name := fmt.Sprintf("#%d", line.ProductID)
				if line.Product != nil {
					name = line.Product.Name
				}

				ranking = append(ranking, ProductRanking{ProductID: line.ProductID, Name: name})
				i = len(ranking) - 1
				index[line.ProductID] = i
			}
			ranking[i].Quantity += line.Quantity
		}
	}

	slices.SortStableFunc(ranking, func(a, b ProductRanking) int {
		return b.Quantity - a.Quantity
	})

	if len(ranking) > limit(n) {
		ranking = ranking[:limit(n)]
	}

	return ranking
}

// paidPerAppointment sums the positive entry totals per appointment.
func paidPerAppointment(entries []models.TreasuryEntry) map[uint]decimal.Decimal {
	paid := make(map[uint]decimal.Decimal)
	for _, e := range entries {
		if e.AppointmentID == nil || !e.Total.IsPositive() {
			continue
		}
		paid[*e.AppointmentID] = paid[*e.AppointmentID].Add(e.Total)
	}
	return paid
}

func summarizeClients(d Dataset) []ClientSummary {
	paid := paidPerAppointment(d.Entries)
	index := make(map[uint]int)
	summaries := make([]ClientSummary, 0)

	for _, a := range completed(d) {
		if a.ClientID == nil {
			continue
		}

		i, ok := index[*a.ClientID]
		if !ok {
			name, email := clientLabel(*a.ClientID, a.Client)
			s := ClientSummary{
				ClientID:    *a.ClientID,
				Name:        name,
				Email:       email,
				TotalSpent:  decimal.Zero,
				ClientSince: a.DateTime,
			}
			if a.Client != nil && !a.Client.CreatedAt.IsZero() && a.Client.CreatedAt.Before(s.ClientSince) {
				s.ClientSince = a.Client.CreatedAt
			}

			summaries = append(summaries, s)
			i = len(summaries) - 1
			index[*a.ClientID] = i
		}

		s := &summaries[i]
		s.CompletedAppointments++
		s.TotalSpent = s.TotalSpent.Add(paid[a.ID])
		if a.DateTime.Before(s.ClientSince) {
			s.ClientSince = a.DateTime
		}
	}

	c := collate.New(language.Spanish)
	slices.SortStableFunc(summaries, func(a, b ClientSummary) int {
		if cmp := c.CompareString(a.Name, b.Name); cmp != 0 {
			return cmp
		}
		return int(a.ClientID) - int(b.ClientID)
	})

	return summaries
}

func clientDetail(d Dataset, clientID uint) []ClientAppointment {
	paid := paidPerAppointment(d.Entries)
	detail := make([]ClientAppointment, 0)

	for _, a := range completed(d) {
		if a.ClientID == nil || *a.ClientID != clientID {
			continue
		}

		service := NoService
		if a.Service != nil {
			service = a.Service.Name
		}

		total, ok := paid[a.ID]
		if !ok {
			total = decimal.Zero
		}

		detail = append(detail, ClientAppointment{
			AppointmentID: a.ID,
			Date:          a.DateTime,
			Service:       service,
			Employee:      employeeName(a),
			TotalPaid:     total,
		})
	}

	slices.SortStableFunc(detail, func(a, b ClientAppointment) int {
		if cmp := b.Date.Compare(a.Date); cmp != 0 {
			return cmp
		}
		return int(b.AppointmentID) - int(a.AppointmentID)
	})

	return detail
}

func periodSummary(d Dataset, includeOutflows bool) PeriodSummary {
	s := PeriodSummary{
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	for _, e := range d.Entries {
		if !includeOutflows && !e.Total.IsPositive() {
			continue
		}
		s.IncomeTotal = s.IncomeTotal.Add(e.Total)
	}

	for _, e := range d.Expenses {
		s.ExpenseTotal = s.ExpenseTotal.Add(e.Amount)
	}

	for _, a := range d.Appointments {
		switch a.Status {
		case models.AppointmentCompleted:
			s.CompletedAppointments++
		case models.AppointmentCancelled:
			s.CancelledAppointments++
		}
	}

	s.TotalAppointments = len(d.Appointments)
	s.NetProfit = s.IncomeTotal.Sub(s.ExpenseTotal)

	return s
}
