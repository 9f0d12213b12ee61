// ABOUTME: Sample dataset for development and demos
// ABOUTME: Seeds every entity kind when the store is empty
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/enterprise-crm/models"
)

type seedRecord struct {
	daysAgo int
	fields  map[string]any
}

var seedCustomers = []seedRecord{
	{2, map[string]any{"name": "Arjun Subramaniam", "email": "arjun@chennaitech.com", "phone": "(555) 789-1234", "company": "Chennai Tech Solutions", "status": "Active", "notes": "Key decision maker for their enterprise software needs"}},
	{5, map[string]any{"name": "Priya Krishnamurthy", "email": "priya@bangaloresoft.com", "phone": "(555) 234-5678", "company": "Bangalore Software Solutions", "status": "Active", "notes": "Looking for CRM and ERP integration"}},
	{9, map[string]any{"name": "Vijay Rajendran", "email": "vijay@hyderabadtech.in", "phone": "(555) 345-6789", "company": "Hyderabad Technologies", "status": "Lead", "notes": "Interested in cloud migration services"}},
	{14, map[string]any{"name": "Lakshmi Venkatesh", "email": "lakshmi@kochidata.com", "phone": "(555) 456-7890", "company": "Kochi Data Systems", "status": "Active", "notes": "Current client for data analytics platform"}},
	{21, map[string]any{"name": "Karthik Narayanan", "email": "karthik@maduraisoft.in", "phone": "(555) 567-8901", "company": "Madurai Software Labs", "status": "Inactive", "notes": "Previous client, potential for reactivation"}},
	{28, map[string]any{"name": "Deepa Chandrasekhar", "email": "deepa@trivandrumit.com", "phone": "(555) 678-9012", "company": "Trivandrum IT Solutions", "status": "Lead", "notes": "Referred by Lakshmi Venkatesh"}},
	{40, map[string]any{"name": "Raja Murugan", "email": "raja@coimbatoreweb.com", "phone": "(555) 789-0123", "company": "Coimbatore Web Development", "status": "Active", "notes": "Web development partner for multiple projects"}},
	{55, map[string]any{"name": "Ananya Padmanabhan", "email": "ananya@mysoreai.in", "phone": "(555) 890-1234", "company": "Mysore AI Research", "status": "Lead", "notes": "Interested in AI integration services"}},
	{90, map[string]any{"name": "Ganesh Ramaswamy", "email": "ganesh@tiruchiinfotech.com", "phone": "(555) 901-2345", "company": "Tiruchi InfoTech", "status": "Active", "notes": "Long-term client for infrastructure services"}},
	{120, map[string]any{"name": "Meena Iyengar", "email": "meena@mangaloredata.in", "phone": "(555) 012-3456", "company": "Mangalore Data Analytics", "status": "Active", "notes": "Recently upgraded to premium support plan"}},
	{200, map[string]any{"name": "John Smith", "email": "john@example.com", "phone": "(555) 123-4567", "company": "Acme Corporation", "status": "Active", "notes": "Global partner for enterprise solutions"}},
	{300, map[string]any{"name": "Sarah Johnson", "email": "sarah@techcorp.com", "phone": "(555) 987-6543", "company": "Tech Corporation", "status": "Active", "notes": "Interested in expanding technology stack"}},
	{400, map[string]any{"name": "Michael Brown", "email": "michael@globalhealth.org", "phone": "(555) 456-7890", "company": "Global Health", "status": "Inactive", "notes": "Previous healthcare industry client"}},
}

// seedDeals references customers by email; the seeder resolves ids after
// customers land.
var seedDeals = []seedRecord{
	{1, map[string]any{"title": "ERP Implementation", "customer": "arjun@chennaitech.com", "value": 75000.0, "status": "Qualified", "notes": "Full ERP system implementation with custom modules"}},
	{3, map[string]any{"title": "CRM Integration", "customer": "priya@bangaloresoft.com", "value": 45000.0, "status": "Proposal", "notes": "Integration with existing systems"}},
	{4, map[string]any{"title": "Cloud Migration Assessment", "customer": "vijay@hyderabadtech.in", "value": 12000.0, "status": "New", "notes": "Initial assessment phase for cloud migration"}},
	{8, map[string]any{"title": "Data Analytics Platform Upgrade", "customer": "lakshmi@kochidata.com", "value": 35000.0, "status": "Negotiation", "notes": "Upgrade to latest version with new ML features"}},
	{11, map[string]any{"title": "Support Renewal", "customer": "karthik@maduraisoft.in", "value": 8000.0, "status": "Negotiation", "notes": "Annual support contract renewal with potential upgrade"}},
	{15, map[string]any{"title": "IT Infrastructure Audit", "customer": "deepa@trivandrumit.com", "value": 15000.0, "status": "New", "notes": "Comprehensive IT audit with security assessment"}},
	{30, map[string]any{"title": "Web Application Development", "customer": "raja@coimbatoreweb.com", "value": 65000.0, "status": "Won", "notes": "E-commerce platform development with payment integration"}},
	{35, map[string]any{"title": "AI Integration Prototype", "customer": "ananya@mysoreai.in", "value": 22000.0, "status": "Proposal", "notes": "Proof of concept for AI integration with existing systems"}},
	{60, map[string]any{"title": "Infrastructure Upgrade", "customer": "ganesh@tiruchiinfotech.com", "value": 95000.0, "status": "Won", "notes": "Complete infrastructure refresh with new servers and networking"}},
	{70, map[string]any{"title": "Premium Support Plan", "customer": "meena@mangaloredata.in", "value": 12000.0, "status": "Won", "notes": "Upgrade to premium 24/7 support plan"}},
	{100, map[string]any{"title": "Global Expansion Consultation", "customer": "john@example.com", "value": 45000.0, "status": "Qualified", "notes": "Consulting services for global market expansion"}},
	{130, map[string]any{"title": "Legacy System Migration", "customer": "sarah@techcorp.com", "value": 85000.0, "status": "Proposal", "notes": "Migration from legacy systems to modern architecture"}},
	{180, map[string]any{"title": "Healthcare Data Solution", "customer": "michael@globalhealth.org", "value": 55000.0, "status": "Lost", "notes": "Lost to competitor with more healthcare-specific experience"}},
}

var seedLeads = []seedRecord{
	{0, map[string]any{"name": "Rohan Mehta", "email": "rohan@suratlogistics.in", "company": "Surat Logistics", "status": "New", "source": "Website", "score": 72.0, "assignedTo": "Jane Doe"}},
	{1, map[string]any{"name": "Kavya Nair", "email": "kavya@calicutdesign.com", "company": "Calicut Design Studio", "status": "Contacted", "source": "Referral", "score": 81.0, "assignedTo": "Robert Brown"}},
	{3, map[string]any{"name": "Suresh Pillai", "email": "suresh@thrissurerp.in", "company": "Thrissur ERP Services", "status": "Qualified", "source": "Trade Show", "score": 88.0, "assignedTo": "Emily Davis"}},
	{6, map[string]any{"name": "Nisha Reddy", "email": "nisha@vizagcloud.com", "company": "Vizag Cloud Works", "status": "Proposal", "source": "Website", "score": 90.0, "assignedTo": "Jane Doe"}},
	{10, map[string]any{"name": "Aditya Kulkarni", "email": "aditya@punedevops.in", "company": "Pune DevOps Labs", "status": "Negotiation", "source": "Cold Call", "score": 85.0, "assignedTo": "Robert Brown"}},
	{18, map[string]any{"name": "Divya Shetty", "email": "divya@udupianalytics.com", "company": "Udupi Analytics", "status": "Closed Won", "source": "Referral", "score": 94.0, "assignedTo": "Emily Davis"}},
	{25, map[string]any{"name": "Manoj Varma", "email": "manoj@goawebworks.in", "company": "Goa Web Works", "status": "Closed Lost", "source": "Website", "score": 61.0, "assignedTo": "Jane Doe"}},
}

var seedQuotes = []seedRecord{
	{2, map[string]any{"quoteNumber": "Q-2023-001", "customer": "Arjun Subramaniam", "value": 5250.0, "status": "Sent"}},
	{6, map[string]any{"quoteNumber": "Q-2023-002", "customer": "Priya Krishnamurthy", "value": 12800.0, "status": "Accepted"}},
	{9, map[string]any{"quoteNumber": "Q-2023-003", "customer": "Deepak Nair", "value": 3500.0, "status": "Draft"}},
	{13, map[string]any{"quoteNumber": "Q-2023-004", "customer": "Ananya Reddy", "value": 9700.0, "status": "Declined"}},
	{20, map[string]any{"quoteNumber": "Q-2023-005", "customer": "Karthik Venkatesh", "value": 7350.0, "status": "Accepted"}},
}

var seedOrders = []seedRecord{
	{1, map[string]any{"orderNumber": "ORD-2023-001", "customer": "Arjun Subramaniam", "value": 5250.0, "status": "Processing", "paymentStatus": "Paid"}},
	{4, map[string]any{"orderNumber": "ORD-2023-002", "customer": "Priya Krishnamurthy", "value": 12800.0, "status": "Shipped", "paymentStatus": "Paid"}},
	{8, map[string]any{"orderNumber": "ORD-2023-003", "customer": "Deepak Nair", "value": 3500.0, "status": "Delivered", "paymentStatus": "Paid"}},
	{12, map[string]any{"orderNumber": "ORD-2023-004", "customer": "Ananya Reddy", "value": 9700.0, "status": "Cancelled", "paymentStatus": "Refunded"}},
	{16, map[string]any{"orderNumber": "ORD-2023-005", "customer": "Karthik Venkatesh", "value": 7350.0, "status": "Delivered", "paymentStatus": "Pending"}},
}

var seedProducts = []seedRecord{
	{30, map[string]any{"name": "Enterprise CRM Pro License", "sku": "CRM-PRO-1", "category": "Software", "value": 1200.0, "status": "Active"}},
	{30, map[string]any{"name": "Enterprise CRM Team License (5 users)", "sku": "CRM-TEAM-5", "category": "Software", "value": 4500.0, "status": "Active"}},
	{45, map[string]any{"name": "Cloud Storage Addon (1TB)", "sku": "ADD-STOR-1", "category": "Service", "value": 300.0, "status": "Active"}},
	{45, map[string]any{"name": "Premium Support Package (Annual)", "sku": "SUP-PREM-A", "category": "Service", "value": 2500.0, "status": "Active"}},
	{60, map[string]any{"name": "CRM Implementation Consulting", "sku": "CON-IMPL-D", "category": "Service", "value": 1500.0, "status": "Active"}},
	{120, map[string]any{"name": "Legacy CRM Import Tool", "sku": "CRM-IMP-L", "category": "Software", "value": 450.0, "status": "Discontinued"}},
}

var seedInventory = []seedRecord{
	{10, map[string]any{"itemCode": "INV-001", "product": "Enterprise CRM Pro License", "sku": "CRM-PRO-1", "stock": 250.0, "status": "In Stock"}},
	{10, map[string]any{"itemCode": "INV-002", "product": "Enterprise CRM Team License (5 users)", "sku": "CRM-TEAM-5", "stock": 120.0, "status": "In Stock"}},
	{15, map[string]any{"itemCode": "INV-003", "product": "Cloud Storage Addon (1TB)", "sku": "ADD-STOR-1", "stock": 800.0, "status": "In Stock"}},
	{20, map[string]any{"itemCode": "INV-004", "product": "Premium Support Package (Annual)", "sku": "SUP-PREM-A", "stock": 14.0, "status": "Limited"}},
	{20, map[string]any{"itemCode": "INV-005", "product": "CRM Implementation Consulting", "sku": "CON-IMPL-D", "stock": 6.0, "status": "Limited"}},
	{90, map[string]any{"itemCode": "INV-006", "product": "Legacy CRM Import Tool", "sku": "CRM-IMP-L", "stock": 0.0, "status": "Discontinued"}},
}

// Seed populates the store with sample records when it holds no customers.
// Creation timestamps are staggered into the past so relative dates and
// newest-first ordering look realistic.
func (s *Store) Seed(ctx context.Context) error {
	count, err := s.Count(ctx, "customers")
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	customerIDs := make(map[string]string)

	for _, rec := range seedCustomers {
		entity := newSeedEntity("customers", rec, now)
		if err := s.put(entity); err != nil {
			return fmt.Errorf("seeding customers: %w", err)
		}
		customerIDs[entity.Str(models.FieldEmail)] = entity.ID
	}

	for _, rec := range seedDeals {
		entity := newSeedEntity("deals", rec, now)
		email, _ := entity.Fields["customer"].(string)
		id, ok := customerIDs[email]
		if !ok {
			return fmt.Errorf("seeding deals: no customer for %q", email)
		}
		entity.Fields["customer"] = id
		if err := s.put(entity); err != nil {
			return fmt.Errorf("seeding deals: %w", err)
		}
	}

	batches := []struct {
		kind    string
		records []seedRecord
	}{
		{"leads", seedLeads},
		{"quotes", seedQuotes},
		{"orders", seedOrders},
		{"products", seedProducts},
		{"inventory", seedInventory},
	}
	for _, batch := range batches {
		for _, rec := range batch.records {
			if err := s.put(newSeedEntity(batch.kind, rec, now)); err != nil {
				return fmt.Errorf("seeding %s: %w", batch.kind, err)
			}
		}
	}

	log.Printf("Seeded sample data: %d customers, %d deals", len(seedCustomers), len(seedDeals))
	return nil
}

func newSeedEntity(kind string, rec seedRecord, now time.Time) *models.Entity {
	fields := make(map[string]any, len(rec.fields))
	for k, v := range rec.fields {
		fields[k] = v
	}
	return &models.Entity{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: now.AddDate(0, 0, -rec.daysAgo),
		Fields:    fields,
	}
}
