// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/catalog"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/user"
)

// Migration handles database migrations and seed data.
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance.
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models.
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("running database auto-migrations")

	// Dependency order: users and categories first.
	models := []interface{}{
		&user.User{},
		&user.AdminLog{},

		&catalog.Category{},
		&catalog.Product{},

		&order.Order{},
		&order.Item{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	logrus.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes beyond what the model tags
// declare.
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",

		"CREATE INDEX IF NOT EXISTS idx_orders_session_status ON orders(session_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		"CREATE INDEX IF NOT EXISTS idx_admin_logs_user ON admin_logs(user_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			logrus.WithError(err).Warn("failed to create index")
		}
	}
	return nil
}

// SeedInitialData inserts the PC component categories, an admin user
// and sample products. Safe to run repeatedly.
func (m *Migration) SeedInitialData() error {
	logrus.Info("seeding initial data")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	logrus.Info("initial data seeded")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []catalog.Category{
		{Name: "Procesadores", Slug: "cpu", Description: "Procesadores AMD e Intel", Icon: "cpu", SortOrder: 1, IsActive: true},
		{Name: "Motherboards", Slug: "motherboard", Description: "Placas madre para AMD e Intel", Icon: "motherboard", SortOrder: 2, IsActive: true},
		{Name: "Memorias RAM", Slug: "ram", Description: "Memorias DDR4 y DDR5", Icon: "ram", SortOrder: 3, IsActive: true},
		{Name: "Placas de video", Slug: "gpu", Description: "Placas de video NVIDIA y AMD", Icon: "gpu", SortOrder: 4, IsActive: true},
		{Name: "Fuentes", Slug: "psu", Description: "Fuentes de alimentación certificadas", Icon: "psu", SortOrder: 5, IsActive: true},
		{Name: "Gabinetes", Slug: "case", Description: "Gabinetes y torres", Icon: "case", SortOrder: 6, IsActive: true},
		{Name: "Almacenamiento", Slug: "storage", Description: "Discos SSD y HDD", Icon: "storage", SortOrder: 7, IsActive: true},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			logrus.WithField("category", category.Slug).Info("created category")
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "admin@edmhardware.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin1234"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@edmhardware.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "EDM",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	logrus.Info("created admin user")
	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := map[string]uint{}
	var all []catalog.Category
	if err := m.db.Find(&all).Error; err != nil {
		return err
	}
	for _, c := range all {
		categories[c.Slug] = c.ID
	}

	// Prices are in centavos.
	products := []catalog.Product{
		{CategoryID: categories["cpu"], Brand: "AMD", Model: "Ryzen 7 7800X3D", Name: "AMD Ryzen 7 7800X3D", Description: "8 núcleos, 16 hilos, 3D V-Cache", Price: 52999900, Stock: 12, IsActive: true,
			Specifications: map[string]string{"socket": "AM5", "cores": "8", "threads": "16"}},
		{CategoryID: categories["cpu"], Brand: "Intel", Model: "Core i5-13600K", Name: "Intel Core i5-13600K", Description: "14 núcleos, 20 hilos", Price: 38999900, Stock: 8, IsActive: true,
			Specifications: map[string]string{"socket": "LGA1700", "cores": "14", "threads": "20"}},
		{CategoryID: categories["motherboard"], Brand: "ASUS", Model: "TUF Gaming B650-Plus", Name: "ASUS TUF Gaming B650-Plus WiFi", Description: "ATX, AM5, DDR5", Price: 29999900, Stock: 6, IsActive: true,
			Specifications: map[string]string{"socket": "AM5", "form_factor": "ATX", "memory": "DDR5"}},
		{CategoryID: categories["motherboard"], Brand: "MSI", Model: "PRO Z790-P", Name: "MSI PRO Z790-P WiFi", Description: "ATX, LGA1700, DDR5", Price: 31999900, Stock: 5, IsActive: true,
			Specifications: map[string]string{"socket": "LGA1700", "form_factor": "ATX", "memory": "DDR5"}},
		{CategoryID: categories["ram"], Brand: "Corsair", Model: "Vengeance 32GB DDR5", Name: "Corsair Vengeance 32GB (2x16) DDR5 6000MHz", Description: "CL30, perfil EXPO", Price: 15999900, Stock: 20, IsActive: true,
			Specifications: map[string]string{"type": "DDR5", "capacity": "32GB", "speed": "6000MHz"}},
		{CategoryID: categories["gpu"], Brand: "NVIDIA", Model: "GeForce RTX 4070 Super", Name: "NVIDIA GeForce RTX 4070 Super 12GB", Description: "12GB GDDR6X", Price: 89999900, Stock: 4, IsActive: true,
			Specifications: map[string]string{"memory": "12GB", "interface": "PCIe 4.0"}},
		{CategoryID: categories["psu"], Brand: "Corsair", Model: "RM850x", Name: "Corsair RM850x 850W 80+ Gold", Description: "Modular, certificación Gold", Price: 18999900, Stock: 10, IsActive: true,
			Specifications: map[string]string{"wattage": "850W", "certification": "80+ Gold"}},
		{CategoryID: categories["case"], Brand: "NZXT", Model: "H5 Flow", Name: "NZXT H5 Flow", Description: "Mid tower, vidrio templado", Price: 13999900, Stock: 7, IsActive: true,
			Specifications: map[string]string{"form_factor": "ATX", "color": "negro"}},
		{CategoryID: categories["storage"], Brand: "Samsung", Model: "980 Pro 1TB", Name: "Samsung 980 Pro 1TB NVMe", Description: "PCIe 4.0, 7000MB/s", Price: 12999900, Stock: 15, IsActive: true,
			Specifications: map[string]string{"capacity": "1TB", "interface": "NVMe PCIe 4.0"}},
		{CategoryID: categories["storage"], Brand: "Western Digital", Model: "Blue 2TB", Name: "WD Blue 2TB SATA", Description: "7200RPM, 3.5 pulgadas", Price: 7999900, Stock: 18, IsActive: true,
			Specifications: map[string]string{"capacity": "2TB", "interface": "SATA"}},
	}

	for _, p := range products {
		if p.CategoryID == 0 {
			continue
		}
		if err := m.db.Create(&p).Error; err != nil {
			return err
		}
	}
	logrus.WithField("count", len(products)).Info("seeded products")
	return nil
}
