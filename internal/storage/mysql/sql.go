package mysql

// Indexes are declared inline so schema init is a single statement and
// needs no multiStatements DSN flag.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
  id             BIGINT AUTO_INCREMENT PRIMARY KEY,
  name           VARCHAR(300) NOT NULL,
  address        VARCHAR(500) NULL,
  url            VARCHAR(600) NULL,
  location       VARCHAR(200) NULL,
  listed_in_city VARCHAR(200) NULL,
  cuisines       VARCHAR(500) NULL,
  rest_type      VARCHAR(200) NULL,
  rate           DOUBLE NULL,
  cost_for_two   INT NULL,
  votes          INT NULL,
  online_order   TINYINT(1) NOT NULL DEFAULT 0,
  book_table     TINYINT(1) NOT NULL DEFAULT 0,
  phone          VARCHAR(50) NULL,
  dish_liked     VARCHAR(500) NULL,
  created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  KEY idx_restaurants_location (location),
  KEY idx_restaurants_listed_in_city (listed_in_city),
  KEY idx_restaurants_rate (rate),
  KEY idx_restaurants_cost_for_two (cost_for_two),
  KEY idx_restaurants_rest_type (rest_type),
  KEY idx_restaurants_online_order (online_order),
  KEY idx_restaurants_book_table (book_table)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const selectCols = `id, name, address, url, location, listed_in_city, cuisines, rest_type,
rate, cost_for_two, votes, online_order, book_table, phone, dish_liked, created_at`

const insertPrefix = `INSERT INTO restaurants
  (name, address, url, location, listed_in_city, cuisines, rest_type,
   rate, cost_for_two, votes, online_order, book_table, phone, dish_liked)
VALUES `
